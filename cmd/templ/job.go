package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/benjaminschreck/go-templ/pkg/templ"
)

// jobFile is the top-level structure of a build job.
type jobFile struct {
	Template  string        `hcl:"template"`
	Output    string        `hcl:"output"`
	Debug     string        `hcl:"debug,optional"`
	ModelFile string        `hcl:"model_file,optional"`
	Model     *modelBlock   `hcl:"model,block"`
	Images    []*imageBlock `hcl:"image,block"`
}

type modelBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type imageBlock struct {
	Name  string `hcl:"name,label"`
	File  string `hcl:"file"`
	Align string `hcl:"align,optional"`
}

// job is a decoded build job with paths resolved against the job file.
type job struct {
	Template string
	Output   string
	Debug    string
	Model    map[string]any
}

// decodeJob parses and decodes an HCL job file.
func decodeJob(path string) (*job, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, diags)
	}

	var parsed jobFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode job file %s: %w", path, diags)
	}

	dir := filepath.Dir(path)
	j := &job{
		Template: resolve(dir, parsed.Template),
		Output:   resolve(dir, parsed.Output),
		Model:    make(map[string]any),
	}
	if parsed.Debug != "" {
		j.Debug = resolve(dir, parsed.Debug)
	}

	// model_file first, so that the model block and images override it
	if parsed.ModelFile != "" {
		if err := loadJSONModel(resolve(dir, parsed.ModelFile), j.Model); err != nil {
			return nil, err
		}
	}
	if parsed.Model != nil {
		attrs, diags := parsed.Model.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode model block in %s: %w", path, diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to evaluate model attribute %q in %s: %w", name, path, diags)
			}
			j.Model[name] = val
		}
	}
	for _, img := range parsed.Images {
		g, err := templ.LoadGraphic(resolve(dir, img.File), img.Align)
		if err != nil {
			return nil, fmt.Errorf("image %q: %w", img.Name, err)
		}
		j.Model[img.Name] = g
	}
	return j, nil
}

// loadJSONModel decodes a JSON object and adds its attributes to model.
func loadJSONModel(path string, model map[string]any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model file: %w", err)
	}
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return fmt.Errorf("failed to read model file %s: %w", path, err)
	}
	val, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return fmt.Errorf("failed to decode model file %s: %w", path, err)
	}
	if !val.Type().IsObjectType() {
		return fmt.Errorf("model file %s must hold a JSON object, got %s", path, val.Type().FriendlyName())
	}
	for name, attr := range val.AsValueMap() {
		if attr.IsNull() {
			model[name] = nil
			continue
		}
		model[name] = attr
	}
	return nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
