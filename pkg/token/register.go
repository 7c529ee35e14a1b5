package token

import (
	"strings"
	"sync"
)

var (
	registryMu      sync.RWMutex
	nextTokenID     = maxBuiltin
	dynamicTokens   = make(map[TokenType]string)
	dynamicKeywords = make(map[string]TokenType)
)

// Register registers a dynamic keyword with the given name and returns its
// token type. Names are case-insensitive and registering the same name twice
// returns the same type, so dialects loaded from configuration can reuse
// keywords another dialect already registered.
func Register(name string) TokenType {
	key := strings.ToUpper(name)

	registryMu.Lock()
	defer registryMu.Unlock()
	if t, ok := dynamicKeywords[key]; ok {
		return t
	}
	nextTokenID++
	t := nextTokenID
	dynamicTokens[t] = key
	dynamicKeywords[key] = t
	return t
}

func getDynamicName(t TokenType) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	name, ok := dynamicTokens[t]
	return name, ok
}

// LookupDynamicKeyword returns the token type for a dynamic keyword.
// Returns IDENT and false if the keyword is not registered.
func LookupDynamicKeyword(name string) (TokenType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if tok, ok := dynamicKeywords[strings.ToUpper(name)]; ok {
		return tok, true
	}
	return IDENT, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}

// RegisteredTokens returns a copy of all registered dynamic tokens.
func RegisteredTokens() map[TokenType]string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make(map[TokenType]string, len(dynamicTokens))
	for k, v := range dynamicTokens {
		result[k] = v
	}
	return result
}
