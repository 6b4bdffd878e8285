package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initErr    error
	once       sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, initErr
}

// Shader is a translated stage plus the names the translator gave to its
// user-declared variables.
type Shader struct {
	Code  string
	names map[string]string
}

// MappedName returns the translated name of a uniform or attribute, or name
// itself when the translator did not rename it.
func (s *Shader) MappedName(name string) string {
	if mapped, ok := s.names[name]; ok && mapped != "" {
		return mapped
	}
	return name
}

// Has reports whether the stage declares the variable.
func (s *Shader) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Translate converts WebGL2 source for the given stage ("vertex" or
// "fragment") to GLSL 4.10, or to ESSL when gles is set.
func Translate(source, stage string, gles bool) (*Shader, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if gles {
		outputFormat = gst.OutputFormatESSL
	}
	res, err := t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}

	s := &Shader{Code: res.Code, names: make(map[string]string, len(res.Variables))}
	for name, v := range res.Variables {
		s.names[name] = v.MappedName
	}
	return s, nil
}
