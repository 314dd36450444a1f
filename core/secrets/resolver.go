package secrets

import (
	"fmt"
	"os"
	"strconv"

	"github.com/snowdash/snowdash/core/infrastructure/logging"
	"github.com/snowdash/snowdash/core/shared/errors"
)

// Tier names, in resolution order.
const (
	TierSection     = "section"
	TierConnections = "connections"
	TierEnvironment = "environment"
)

// SectionKey is the secrets key holding warehouse credentials, both as a
// top-level section and as the preferred entry of the connections table.
const SectionKey = "snowflake"

// Credentials is a normalized set of warehouse connection parameters.
// A usable record always carries user, password, and account; the rest
// is optional. Records are built from exactly one tier and are not
// mutated after construction.
type Credentials struct {
	User         string
	Password     string
	Account      string
	Warehouse    string
	Database     string
	Schema       string
	Role         string
	InsecureMode bool

	// Source records which tier produced the credentials.
	Source string
}

// Complete reports whether the required fields are all non-empty.
func (c Credentials) Complete() bool {
	return c.User != "" && c.Password != "" && c.Account != ""
}

// tier attempts to build credentials from one source. Lookup failures
// and malformed content report absence rather than an error, so that
// resolution falls through to the next tier.
type tier struct {
	name    string
	resolve func(store *Store) (Credentials, bool)
}

// Resolver resolves warehouse credentials from an explicit ordered list
// of tiers. The first tier that yields a complete record wins; tiers
// are never merged.
type Resolver struct {
	store *Store
	tiers []tier
	log   *logging.Logger
}

// NewResolver creates a resolver over the given secrets store.
func NewResolver(store *Store) *Resolver {
	if store == nil {
		store = NewStore()
	}
	r := &Resolver{
		store: store,
		log:   logging.New("secrets"),
	}
	r.tiers = []tier{
		{name: TierSection, resolve: r.resolveSection},
		{name: TierConnections, resolve: r.resolveConnections},
		{name: TierEnvironment, resolve: r.resolveEnvironment},
	}
	return r
}

// Resolve returns the first complete credential record found across the
// tiers, or a CONFIGURATION_ERROR naming the secret keys that were
// available.
func (r *Resolver) Resolve() (Credentials, error) {
	for _, t := range r.tiers {
		if creds, ok := t.resolve(r.store); ok {
			creds.Source = t.name
			r.log.Debugf("credentials resolved from %s tier", t.name)
			return creds, nil
		}
	}
	msg := fmt.Sprintf(
		"warehouse credentials not found: provide a '%s' secrets section, a '%s' entry under 'connections', or SNOWFLAKE_USER/SNOWFLAKE_PASSWORD/SNOWFLAKE_ACCOUNT environment variables (available secret keys: %v)",
		SectionKey, SectionKey, r.store.Keys(),
	)
	return Credentials{}, errors.NewAppError(errors.ErrCodeConfiguration, msg, nil)
}

func (r *Resolver) resolveSection(store *Store) (Credentials, bool) {
	section, ok := store.Section(SectionKey)
	if !ok {
		return Credentials{}, false
	}
	creds := fromFields(section)
	return creds, creds.Complete()
}

func (r *Resolver) resolveConnections(store *Store) (Credentials, bool) {
	entries, ok := store.Connections()
	if !ok || len(entries) == 0 {
		return Credentials{}, false
	}
	chosen := entries[0]
	for _, entry := range entries {
		if entry.Name == SectionKey {
			chosen = entry
			break
		}
	}
	if chosen.Name != SectionKey {
		// Falling back to an arbitrary connection is convenient but easy
		// to misconfigure, so it is always called out.
		r.log.Warnf("no connection named '%s'; falling back to first entry '%s'", SectionKey, chosen.Name)
	}
	creds := fromFields(chosen.Fields)
	return creds, creds.Complete()
}

func (r *Resolver) resolveEnvironment(_ *Store) (Credentials, bool) {
	creds := Credentials{
		User:      os.Getenv("SNOWFLAKE_USER"),
		Password:  os.Getenv("SNOWFLAKE_PASSWORD"),
		Account:   os.Getenv("SNOWFLAKE_ACCOUNT"),
		Warehouse: os.Getenv("SNOWFLAKE_WAREHOUSE"),
		Database:  os.Getenv("SNOWFLAKE_DATABASE"),
		Schema:    os.Getenv("SNOWFLAKE_SCHEMA"),
		Role:      os.Getenv("SNOWFLAKE_ROLE"),
	}
	return creds, creds.Complete()
}

// fromFields normalizes a raw secrets section into a Credentials record.
// Unknown keys are ignored; non-string values for string fields are
// treated as absent.
func fromFields(fields map[string]any) Credentials {
	return Credentials{
		User:         stringField(fields, "user"),
		Password:     stringField(fields, "password"),
		Account:      stringField(fields, "account"),
		Warehouse:    stringField(fields, "warehouse"),
		Database:     stringField(fields, "database"),
		Schema:       stringField(fields, "schema"),
		Role:         stringField(fields, "role"),
		InsecureMode: boolField(fields, "insecure_mode"),
	}
}

// stringField reads a string value, expanding {{ env.VAR }} placeholders.
// A placeholder naming an unset variable leaves the field empty, which
// for a required field makes the tier fall through.
func stringField(fields map[string]any, key string) string {
	value, ok := fields[key].(string)
	if !ok {
		return ""
	}
	substituted, err := SubstituteEnvVars(value)
	if err != nil {
		return ""
	}
	return substituted
}

func boolField(fields map[string]any, key string) bool {
	switch value := fields[key].(type) {
	case bool:
		return value
	case string:
		parsed, err := strconv.ParseBool(value)
		return err == nil && parsed
	default:
		return false
	}
}
