package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
)

// QueryUUID parses a required uuid query parameter.
func QueryUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" must be a valid uuid")
	}
	return id, nil
}

// QueryInt parses an optional integer query parameter, returning fallback
// when absent.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" must be an integer")
	}
	return value, nil
}

// QueryCurrency parses an optional currency query parameter, defaulting to
// USD.
func QueryCurrency(r *http.Request, name string) (enums.Currency, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return enums.CurrencyUSD, nil
	}
	currency, err := enums.ParseCurrency(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" is not a supported currency")
	}
	return currency, nil
}
