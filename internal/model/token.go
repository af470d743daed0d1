package model

// AccessToken is the payload embedded in the signed bearer token. Tokens are
// issued by the clinical platform with the same secret.
type AccessToken struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"is_admin"`
}
