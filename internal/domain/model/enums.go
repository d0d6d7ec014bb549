package model

// SecretType identifies what kind of material an account's secret holds.
type SecretType string

const (
	SecretTypePassword SecretType = "password"
	SecretTypeSSHKey   SecretType = "ssh-key"
	SecretTypeToken    SecretType = "token"
	SecretTypeCert     SecretType = "cert"
)

// SecretTypes lists every supported secret type in display order.
var SecretTypes = []SecretType{
	SecretTypePassword,
	SecretTypeSSHKey,
	SecretTypeToken,
	SecretTypeCert,
}

// Valid reports whether t is one of the supported secret types.
func (t SecretType) Valid() bool {
	for _, known := range SecretTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of the secret type.
func (t SecretType) Label() string {
	switch t {
	case SecretTypePassword:
		return "Password"
	case SecretTypeSSHKey:
		return "SSH Key"
	case SecretTypeToken:
		return "Token"
	case SecretTypeCert:
		return "Cert"
	default:
		return string(t)
	}
}
