package build

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"atomcss/common"
	"atomcss/config"
)

// Values are available to output name template.
type Values struct {
	Recipe string
	Prefix string
	Format string
}

func expandNameTemplate(field string, values Values) (string, error) {
	tmpl, err := template.New(config.NameTemplateFieldName).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.NameTemplateFieldName, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", config.NameTemplateFieldName, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// outputBaseName returns file name without extension for generated
// stylesheet and class map. Recipe name is used when template is empty or
// expands to nothing.
func outputBaseName(conf *config.OutputConfig, src, prefix string, format common.MapFormat) (string, error) {
	recipe := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	name := recipe
	if conf.NameTemplate != "" {
		expanded, err := expandNameTemplate(conf.NameTemplate, Values{Recipe: recipe, Prefix: prefix, Format: format.String()})
		if err != nil {
			return "", err
		}
		if expanded != "" {
			name = expanded
		}
	}
	if conf.FileNameTransliterate {
		name = slug.Make(name)
	}
	return config.CleanFileName(name), nil
}
