// Package catalog loads mutation and category definitions from YAML and
// builds the shared mutation registry.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/appengine-ltd/survive-it/internal/mutation"
)

// MaxFileSize bounds definition files read from disk.
const MaxFileSize = 1024 * 1024

//go:embed data/mutations.yaml
var defaultDefinitions []byte

var idPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

var validate *validator.Validate

func init() {
	validate = validator.New()
	err := validate.RegisterValidation("defid", func(fl validator.FieldLevel) bool {
		return idPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("catalog: register defid validation: %v", err))
	}
}

type File struct {
	Categories []CategoryDef `yaml:"categories" validate:"required,dive"`
	Traits     []TraitDef    `yaml:"traits" validate:"required,dive"`
}

type CategoryDef struct {
	ID        string `yaml:"id" validate:"required,defid"`
	Name      string `yaml:"name" validate:"required"`
	Threshold string `yaml:"threshold" validate:"omitempty,defid"`
	WIP       bool   `yaml:"wip"`
}

type TraitDef struct {
	ID            string         `yaml:"id" validate:"required,defid"`
	Name          string         `yaml:"name" validate:"required"`
	Points        int            `yaml:"points"`
	Weight        int            `yaml:"weight" validate:"gte=0"`
	Prereqs       []string       `yaml:"prereqs" validate:"dive,defid"`
	ThresholdReqs []string       `yaml:"threshold_reqs" validate:"dive,defid"`
	Cancels       []string       `yaml:"cancels" validate:"dive,defid"`
	Threshold     bool           `yaml:"threshold"`
	StartingOnly  bool           `yaml:"starting_only"`
	Categories    []string       `yaml:"categories" validate:"dive,defid"`
	Slots         []string       `yaml:"slots" validate:"dive,required"`
	Values        map[string]int `yaml:"values" validate:"dive,keys,required,endkeys"`
}

// Parse decodes a definition file. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse definitions: empty document")
		}
		return nil, fmt.Errorf("parse definitions: %w", err)
	}
	return &f, nil
}

func (f *File) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate definitions: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("validate definitions: %s", strings.Join(msgs, "; "))
}

// Registry converts the file into a registry, which checks cross references.
func (f *File) Registry() (*mutation.Registry, error) {
	traits := make([]mutation.Trait, 0, len(f.Traits))
	for _, d := range f.Traits {
		traits = append(traits, mutation.Trait{
			ID:            mutation.TraitID(d.ID),
			Name:          d.Name,
			Points:        d.Points,
			Weight:        d.Weight,
			Prereqs:       traitIDs(d.Prereqs),
			ThresholdReqs: traitIDs(d.ThresholdReqs),
			Cancels:       traitIDs(d.Cancels),
			Threshold:     d.Threshold,
			StartingOnly:  d.StartingOnly,
			Categories:    categoryIDs(d.Categories),
			Slots:         d.Slots,
			Values:        d.Values,
		})
	}

	categories := make([]mutation.Category, 0, len(f.Categories))
	for _, d := range f.Categories {
		categories = append(categories, mutation.Category{
			ID:             mutation.CategoryID(d.ID),
			Name:           d.Name,
			ThresholdTrait: mutation.TraitID(d.Threshold),
			WIP:            d.WIP,
		})
	}

	reg, err := mutation.NewRegistry(traits, categories)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	return reg, nil
}

// Load parses, validates and builds a registry from YAML bytes.
func Load(data []byte) (*mutation.Registry, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.Registry()
}

// LoadFile is Load for a file on disk, refusing files over MaxFileSize.
func LoadFile(path string) (*mutation.Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat definitions: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("definitions %s exceed %d bytes", path, MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	reg, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *mutation.Registry
	defaultErr  error
)

// Default returns the registry built from the embedded definitions. It is
// built on first use and shared afterwards.
func Default() (*mutation.Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load(defaultDefinitions)
	})
	return defaultReg, defaultErr
}

// DefaultDefinitions returns a copy of the embedded YAML.
func DefaultDefinitions() []byte {
	return bytes.Clone(defaultDefinitions)
}

func traitIDs(in []string) []mutation.TraitID {
	if len(in) == 0 {
		return nil
	}
	out := make([]mutation.TraitID, len(in))
	for i, s := range in {
		out[i] = mutation.TraitID(s)
	}
	return out
}

func categoryIDs(in []string) []mutation.CategoryID {
	if len(in) == 0 {
		return nil
	}
	out := make([]mutation.CategoryID, len(in))
	for i, s := range in {
		out[i] = mutation.CategoryID(s)
	}
	return out
}
