package handler

import (
	"github.com/pnci1029/Football-Club-sub002/internal/security"
	"github.com/pnci1029/Football-Club-sub002/pkg/jwtutil"
)

var (
	tokens *jwtutil.JWT
	creds  security.CredentialStore
)

// Init wires the handlers to the token service and credential store
func Init(jwt *jwtutil.JWT, credentialStore security.CredentialStore) {
	tokens = jwt
	creds = credentialStore
}
