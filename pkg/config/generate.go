package config

import (
	"bytes"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/railup/pkg/errors"
)

const generatedHeader = `# railup configuration.
# Place this file at your project root as .railup.toml.
# Protected paths (db/schema.rb, db/migrate, vendor, node_modules,
# .bundle, tmp) are never rewritten and cannot be configured here.

`

// Generate renders a commented starter config file with the built-in
// defaults filled in.
func Generate() ([]byte, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	enc := gotoml.NewEncoder(&buf)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode config")
	}

	return buf.Bytes(), nil
}
