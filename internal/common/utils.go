package common

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/jobcorpus/models"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON logger on stderr from the global --quiet and
// --verbose flags.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	} else if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads the file named by --config over the built-in defaults.
// Commands apply their own explicitly set flags on top and validate.
func LoadConfig(c *cli.Context) (models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, cli.Exit(err.Error(), 2)
	}
	return cfg, nil
}

// ParseDerived parses "source=target" pairs from --derive flags.
func ParseDerived(values []string) ([]models.DerivedField, error) {
	out := make([]models.DerivedField, 0, len(values))
	for _, v := range values {
		src, dst, ok := strings.Cut(v, "=")
		src, dst = strings.TrimSpace(src), strings.TrimSpace(dst)
		if !ok || src == "" || dst == "" {
			return nil, fmt.Errorf("invalid --derive value %q, want source=target", v)
		}
		out = append(out, models.DerivedField{Source: src, Target: dst})
	}
	return out, nil
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}
