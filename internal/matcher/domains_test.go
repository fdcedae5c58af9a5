package matcher

import (
	"reflect"
	"testing"

	"github.com/example/vivalingo/internal/content"
)

func TestDetectDomains(t *testing.T) {
	hints := content.MustLoad().IngestHints

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "two domains in hint order", text: "El retraso del VUELO y la factura", want: []string{"Travel problems", "Finance"}},
		{name: "fallback", text: "Hablamos de literatura.", want: []string{GeneralDomain}},
		{name: "empty", text: "", want: []string{GeneralDomain}},
		{name: "accented keyword", text: "Me dieron el diagnóstico", want: []string{"Healthcare"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDomains(tt.text, hints); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectDomains() = %v, want %v", got, tt.want)
			}
		})
	}
}
