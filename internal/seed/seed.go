// Package seed loads the initial activity set the registry starts from.
//
// The embedded activities.yaml is used unless a seed file is configured.
// Seed files may be YAML (.yaml, .yml) or HCL (.hcl):
//
//	activity "Chess Club" {
//	  description      = "Learn strategies and compete in chess tournaments"
//	  schedule         = "Fridays, 3:30 PM - 5:00 PM"
//	  max_participants = 12
//	  participants     = ["michael@mergington.edu"]
//	}
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mergington/signup/internal/domain/model"
)

//go:embed activities.yaml
var defaultSeed []byte

// Load returns the activities from path, or the embedded defaults when path is empty.
func Load(ctx context.Context, path string) ([]model.Activity, error) {
	if path == "" {
		return Default(ctx)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return fromYAML(file.Provider(path), path)
	case ".hcl":
		return fromHCL(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Default returns the embedded activity set.
func Default(_ context.Context) ([]model.Activity, error) {
	return fromYAML(rawBytes(defaultSeed), "embedded activities.yaml")
}

// FromYAML parses a YAML document with a top-level activities list.
func FromYAML(_ context.Context, doc []byte) ([]model.Activity, error) {
	return fromYAML(rawBytes(doc), "yaml document")
}

func fromYAML(p koanf.Provider, source string) ([]model.Activity, error) {
	k := koanf.New(".")
	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseSeed, source, err)
	}
	var activities []model.Activity
	if err := k.UnmarshalWithConf("activities", &activities, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseSeed, source, err)
	}
	return normalize(activities), nil
}

// hclSeedFile is the top-level structure of an HCL seed file.
type hclSeedFile struct {
	Activities []hclActivity `hcl:"activity,block"`
}

type hclActivity struct {
	Name            string   `hcl:"name,label"`
	Description     string   `hcl:"description"`
	Schedule        string   `hcl:"schedule"`
	MaxParticipants int      `hcl:"max_participants"`
	Participants    []string `hcl:"participants,optional"`
}

func fromHCL(path string) ([]model.Activity, error) {
	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseSeed, path, diags)
	}

	var parsed hclSeedFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseSeed, path, diags)
	}

	activities := make([]model.Activity, 0, len(parsed.Activities))
	for _, a := range parsed.Activities {
		activities = append(activities, model.Activity{
			Name:            a.Name,
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    a.Participants,
		})
	}
	return normalize(activities), nil
}

func normalize(activities []model.Activity) []model.Activity {
	for i := range activities {
		activities[i] = activities[i].Clone()
	}
	return activities
}

// rawBytes adapts an in-memory document to koanf.Provider.
type rawBytes []byte

func (b rawBytes) ReadBytes() ([]byte, error) { return b, nil }

func (b rawBytes) Read() (map[string]any, error) {
	return nil, errors.New("seed: rawBytes provider does not support Read")
}
