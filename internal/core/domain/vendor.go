package domain

// Vendor-side entities, consumed through the Power BI / Fabric REST APIs.

type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type Dataset struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	WorkspaceID  string `json:"workspace_id"`
	ConfiguredBy string `json:"configured_by,omitempty"`
}

type Report struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspace_id"`
	DatasetID   string `json:"dataset_id,omitempty"`
}

// Definition is the wire shape of an artifact definition: a set of parts,
// each a path plus an (usually base64-inlined) payload.
type Definition struct {
	Format string           `json:"format,omitempty"`
	Parts  []DefinitionPart `json:"parts"`
}

type DefinitionPart struct {
	Path        string `json:"path"`
	Payload     string `json:"payload"`
	PayloadType string `json:"payloadType"`
}

type Gateway struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// GatewayDatasource carries inconsistent field naming across vendor API
// versions; Name resolution falls back across the tagged variants explicitly
// rather than duck-typing.
type GatewayDatasource struct {
	ID               string `json:"id"`
	GatewayID        string `json:"gateway_id"`
	Name             string `json:"datasource_name,omitempty"`
	DatasourceType   string `json:"datasource_type,omitempty"`
	ConnectionDetail string `json:"connection_details,omitempty"`
	CredentialType   string `json:"credential_type,omitempty"`
}

type DatasourceUser struct {
	EmailAddress  string `json:"email_address"`
	AccessRight   string `json:"datasource_access_right"`
	PrincipalType string `json:"principal_type,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
}

// CredentialDetails is the payload for updating a gateway datasource's
// stored credentials.
type CredentialDetails struct {
	CredentialType      string `json:"credentialType"`
	Credentials         string `json:"credentials"`
	EncryptedConnection string `json:"encryptedConnection,omitempty"`
	EncryptionAlgorithm string `json:"encryptionAlgorithm,omitempty"`
	PrivacyLevel        string `json:"privacyLevel,omitempty"`
}
