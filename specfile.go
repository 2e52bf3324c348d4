package intake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gobeaver/intake/filevalidator"
	"gopkg.in/yaml.v3"
)

// specFile is the on-disk form of a list of specs.
//
//	uploads:
//	  - field: avatar
//	    target_dir: ./public/avatars
//	    allowed_extensions: ["@images"]
//	    force_file_name: avatar
//	    replace_existing: true
type specFile struct {
	Uploads []Spec `yaml:"uploads"`
}

// extensionPresets expands "@name" entries of allowed_extensions.
var extensionPresets = map[string]func() []string{
	"@images":    filevalidator.ImageExtensions,
	"@documents": filevalidator.DocumentExtensions,
	"@all":       filevalidator.AllSupportedExtensions,
}

// ParseSpecs decodes specs from YAML and validates them.
func ParseSpecs(r io.Reader) ([]Spec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f specFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("spec file is empty")
		}
		return nil, fmt.Errorf("failed to decode specs: %w", err)
	}

	var errs []error
	for i := range f.Uploads {
		exts, err := expandExtensions(f.Uploads[i].AllowedExtensions)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.Uploads[i].AllowedExtensions = exts
		if err := f.Uploads[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return f.Uploads, nil
}

// LoadSpecs reads specs from a YAML file.
func LoadSpecs(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	specs, err := ParseSpecs(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

func expandExtensions(exts []string) ([]string, error) {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		if strings.HasPrefix(ext, "@") {
			preset, ok := extensionPresets[strings.ToLower(ext)]
			if !ok {
				return nil, fmt.Errorf("unknown extension preset %q", ext)
			}
			out = append(out, preset()...)
			continue
		}
		out = append(out, filevalidator.NormalizeExtension(ext))
	}
	return out, nil
}
