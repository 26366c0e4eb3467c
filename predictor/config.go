package predictor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MaxBits is the largest history or index width accepted by Validate.
const MaxBits = 24

// maxPerceptronWeights caps the total perceptron storage.
const maxPerceptronWeights = 1 << 26

var (
	// ErrInvalidScheme is returned for an unknown scheme selector.
	ErrInvalidScheme = errors.New("invalid predictor scheme")
	// ErrInvalidWidth is returned for an out-of-range history or index width.
	ErrInvalidWidth = errors.New("invalid width")
)

// SchemeType selects the prediction algorithm. The zero value means no
// scheme was selected and fails validation.
type SchemeType int

const (
	schemeUnset SchemeType = iota
	// Static always predicts taken.
	Static
	// Gshare XORs PC bits with the global history.
	Gshare
	// Tournament chooses between a local and a global predictor.
	Tournament
	// Perceptron is the custom scheme: a per-address perceptron.
	Perceptron
)

var schemeNames = map[SchemeType]string{
	Static:     "static",
	Gshare:     "gshare",
	Tournament: "tournament",
	Perceptron: "perceptron",
}

// displayNames mirrors the classic driver's report names.
var displayNames = map[SchemeType]string{
	Static:     "Static",
	Gshare:     "Gshare",
	Tournament: "Tournament",
	Perceptron: "Custom",
}

// String returns the lower-case selector name.
func (s SchemeType) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// DisplayName returns the name used in reports.
func (s SchemeType) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return s.String()
}

// ParseSchemeType converts a selector name into a SchemeType. "custom" is
// an alias for perceptron.
func ParseSchemeType(name string) (SchemeType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "static":
		return Static, nil
	case "gshare":
		return Gshare, nil
	case "tournament":
		return Tournament, nil
	case "perceptron", "custom":
		return Perceptron, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidScheme, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s SchemeType) MarshalText() ([]byte, error) {
	name, ok := schemeNames[s]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScheme, int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SchemeType) UnmarshalText(text []byte) error {
	parsed, err := ParseSchemeType(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Config holds the parameters of one simulation run. It is fixed for the
// lifetime of a Predictor and determines all table sizes.
type Config struct {
	// Scheme selects the prediction algorithm. Default: static.
	Scheme SchemeType `json:"scheme"`

	// GHistoryBits is the global history width. Gshare and the tournament
	// global side use 2^GHistoryBits counters. Default: 14.
	GHistoryBits uint `json:"ghistory_bits"`

	// LHistoryBits is the local history width used by the tournament
	// scheme. Default: 10.
	LHistoryBits uint `json:"lhistory_bits"`

	// PCIndexBits is the number of PC bits selecting a local history
	// register or a perceptron weight vector. Default: 10.
	PCIndexBits uint `json:"pc_index_bits"`

	// PerceptronTheta is the perceptron training threshold. Zero selects
	// floor(1.93*GHistoryBits + 14).
	PerceptronTheta int32 `json:"perceptron_theta,omitempty"`

	// PerceptronWeightLimit saturates every perceptron weight to
	// [-limit, limit]. Zero leaves weights unclamped.
	PerceptronWeightLimit int32 `json:"perceptron_weight_limit,omitempty"`
}

// DefaultConfig returns the classic driver defaults.
func DefaultConfig() *Config {
	return &Config{
		Scheme:       Static,
		GHistoryBits: 14,
		LHistoryBits: 10,
		PCIndexBits:  10,
	}
}

// LoadConfig loads a Config from a JSON file. The file must select a
// scheme; other fields missing from the file keep their default values.
// Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictor config file: %w", err)
	}

	config := DefaultConfig()
	config.Scheme = schemeUnset

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse predictor config: %w", err)
	}

	if config.Scheme == schemeUnset {
		return nil, fmt.Errorf("%w: config file %s has no scheme", ErrInvalidScheme, path)
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize predictor config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write predictor config file: %w", err)
	}

	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ParseOption applies a driver option string to the Config:
//
//	static
//	gshare:<ghistoryBits>
//	tournament:<ghistoryBits>:<lhistoryBits>:<pcIndexBits>
//	custom | perceptron[:<ghistoryBits>:<pcIndexBits>]
//
// Widths omitted from the string keep their current values.
func (c *Config) ParseOption(option string) error {
	parts := strings.Split(strings.TrimLeft(option, "-"), ":")

	scheme, err := ParseSchemeType(parts[0])
	if err != nil {
		return err
	}

	var fields []*uint
	switch scheme {
	case Static:
	case Gshare:
		fields = []*uint{&c.GHistoryBits}
	case Tournament:
		fields = []*uint{&c.GHistoryBits, &c.LHistoryBits, &c.PCIndexBits}
	case Perceptron:
		fields = []*uint{&c.GHistoryBits, &c.PCIndexBits}
	}

	args := parts[1:]
	if len(args) > len(fields) {
		return fmt.Errorf("%w: too many fields in option %q", ErrInvalidScheme, option)
	}

	widths := make([]uint, len(args))
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: bad width %q in option %q", ErrInvalidWidth, arg, option)
		}
		widths[i] = uint(v)
	}

	for i, w := range widths {
		*fields[i] = w
	}
	c.Scheme = scheme
	return nil
}

// Validate checks that the widths the selected scheme uses are in
// [1, MaxBits].
func (c *Config) Validate() error {
	check := func(name string, v uint) error {
		if v == 0 || v > MaxBits {
			return fmt.Errorf("%w: %s must be in [1, %d], got %d",
				ErrInvalidWidth, name, MaxBits, v)
		}
		return nil
	}

	switch c.Scheme {
	case schemeUnset:
		return fmt.Errorf("%w: no scheme selected", ErrInvalidScheme)
	case Static:
		return nil
	case Gshare:
		return check("ghistory_bits", c.GHistoryBits)
	case Tournament:
		if err := check("ghistory_bits", c.GHistoryBits); err != nil {
			return err
		}
		if err := check("lhistory_bits", c.LHistoryBits); err != nil {
			return err
		}
		return check("pc_index_bits", c.PCIndexBits)
	case Perceptron:
		if err := check("ghistory_bits", c.GHistoryBits); err != nil {
			return err
		}
		if err := check("pc_index_bits", c.PCIndexBits); err != nil {
			return err
		}
		if (uint64(1)<<c.PCIndexBits)*uint64(c.GHistoryBits+1) > maxPerceptronWeights {
			return fmt.Errorf("%w: perceptron needs 2^%d vectors of %d weights",
				ErrInvalidWidth, c.PCIndexBits, c.GHistoryBits+1)
		}
		if c.PerceptronTheta < 0 {
			return fmt.Errorf("perceptron_theta must be >= 0")
		}
		if c.PerceptronWeightLimit < 0 {
			return fmt.Errorf("perceptron_weight_limit must be >= 0")
		}
		return nil
	}

	return fmt.Errorf("%w: %d", ErrInvalidScheme, int(c.Scheme))
}

// String renders the Config in option-string form.
func (c *Config) String() string {
	switch c.Scheme {
	case Gshare:
		return fmt.Sprintf("gshare:%d", c.GHistoryBits)
	case Tournament:
		return fmt.Sprintf("tournament:%d:%d:%d",
			c.GHistoryBits, c.LHistoryBits, c.PCIndexBits)
	case Perceptron:
		return fmt.Sprintf("perceptron:%d:%d", c.GHistoryBits, c.PCIndexBits)
	}
	return c.Scheme.String()
}
