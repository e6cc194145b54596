package build

import (
	"testing"

	"atomcss/common"
	"atomcss/config"
)

func TestOutputBaseName(t *testing.T) {
	tests := []struct {
		name     string
		conf     config.OutputConfig
		src      string
		prefix   string
		format   common.MapFormat
		want     string
		wantFail bool
	}{
		{name: "no template", src: "/tmp/styles.yaml", want: "styles"},
		{name: "recipe", conf: config.OutputConfig{NameTemplate: "{{ .Recipe }}"}, src: "/x/site.yml", want: "site"},
		{name: "prefix with default", conf: config.OutputConfig{NameTemplate: `{{ .Recipe }}-{{ .Prefix | default "atoms" }}`}, src: "a.yaml", want: "a-atoms"},
		{name: "prefix", conf: config.OutputConfig{NameTemplate: "{{ .Prefix }}"}, src: "a.yaml", prefix: "di", want: "di"},
		{name: "format", conf: config.OutputConfig{NameTemplate: "{{ .Recipe }}.{{ .Format | upper }}"}, src: "a.yaml", format: common.MapFormatJson, want: "a.JSON"},
		{name: "empty expansion", conf: config.OutputConfig{NameTemplate: "{{ .Prefix }}"}, src: "a.yaml", want: "a"},
		{name: "separators removed", conf: config.OutputConfig{NameTemplate: "x/y"}, src: "a.yaml", want: "xy"},
		{name: "transliterate", conf: config.OutputConfig{FileNameTransliterate: true}, src: "Café Styles.yaml", want: "cafe-styles"},
		{name: "bad template", conf: config.OutputConfig{NameTemplate: "{{ .Recipe"}, src: "a.yaml", wantFail: true},
		{name: "unknown value", conf: config.OutputConfig{NameTemplate: "{{ .Book }}"}, src: "a.yaml", wantFail: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputBaseName(&tt.conf, tt.src, tt.prefix, tt.format)
			if tt.wantFail {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("outputBaseName() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("outputBaseName() = %q, want %q", got, tt.want)
			}
		})
	}
}
