package dto

import "fabric-artifact-manager/internal/core/domain"

type CredentialUpdateRequest struct {
	CredentialType      string `json:"credential_type" binding:"required"`
	Credentials         string `json:"credentials" binding:"required"`
	EncryptedConnection string `json:"encrypted_connection"`
	EncryptionAlgorithm string `json:"encryption_algorithm"`
	PrivacyLevel        string `json:"privacy_level"`
}

func (r CredentialUpdateRequest) ToCredentialDetails() domain.CredentialDetails {
	return domain.CredentialDetails{
		CredentialType:      r.CredentialType,
		Credentials:         r.Credentials,
		EncryptedConnection: r.EncryptedConnection,
		EncryptionAlgorithm: r.EncryptionAlgorithm,
		PrivacyLevel:        r.PrivacyLevel,
	}
}

type DatasourceUserRequest struct {
	EmailAddress string `json:"email_address" binding:"required,email"`
	AccessRight  string `json:"access_right"`
}
