// Package asset reads and writes blend-space asset documents in YAML.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrUnknownAnimation is returned when a sample names an animation the document does not declare.
var ErrUnknownAnimation = errors.New("unknown animation")

// Document is the on-disk form of a blend space.
type Document struct {
	Kind       string         `yaml:"kind"`
	Skeleton   string         `yaml:"skeleton,omitempty"`
	Parameters []ParameterDoc `yaml:"parameters"`
	Animations []AnimationDoc `yaml:"animations"`
	Samples    []SampleDoc    `yaml:"samples"`

	// Nil means not authored; the loader may substitute a configured default.
	TargetWeightInterpolationSpeed *float32 `yaml:"target_weight_interpolation_speed,omitempty"`
	NotifyTriggerMode              string   `yaml:"notify_trigger_mode,omitempty"`
	RotationBlendInMeshSpace       bool     `yaml:"rotation_blend_in_mesh_space,omitempty"`

	PerBoneInterpolation []PerBoneDoc       `yaml:"per_bone_interpolation,omitempty"`
	InputInterpolation   []InterpolationDoc `yaml:"input_interpolation,omitempty"`

	Grid *GridDoc `yaml:"grid,omitempty"`
}

// ParameterDoc describes one blend axis.
type ParameterDoc struct {
	Name    string  `yaml:"name"`
	Min     float32 `yaml:"min"`
	Max     float32 `yaml:"max"`
	GridNum int     `yaml:"grid_num"`
}

// AnimationDoc declares an animation referenced by samples.
type AnimationDoc struct {
	Name     string  `yaml:"name"`
	Duration float32 `yaml:"duration"`
	Additive string  `yaml:"additive,omitempty"`
	Skeleton string  `yaml:"skeleton,omitempty"`
}

// SampleDoc places a declared animation at a coordinate.
type SampleDoc struct {
	Animation string    `yaml:"animation"`
	Value     []float32 `yaml:"value,flow"`
}

// PerBoneDoc overrides the weight interpolation speed below a bone.
type PerBoneDoc struct {
	Bone  string  `yaml:"bone"`
	Speed float32 `yaml:"speed"`
}

// InterpolationDoc configures input smoothing for one axis.
type InterpolationDoc struct {
	Time float32 `yaml:"time"`
	Type string  `yaml:"type,omitempty"`
}

// GridDoc is a precomputed grid. Element i sits at x = i / (num_y+1), y = i % (num_y+1).
type GridDoc struct {
	NumX     int          `yaml:"num_x"`
	NumY     int          `yaml:"num_y"`
	Elements []ElementDoc `yaml:"elements"`
}

// ElementDoc lists up to three sample indices and their weights.
type ElementDoc struct {
	Samples []int     `yaml:"samples,flow"`
	Weights []float32 `yaml:"weights,flow"`
}

// Load reads a document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding asset: %w", err)
	}
	return &doc, nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document to path, creating parent directories.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
