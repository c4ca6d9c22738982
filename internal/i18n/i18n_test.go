package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestTranslate(t *testing.T) {
	tr := NewTranslator("en")

	assert.Equal(t, "Task not found", tr.Translate(language.English, "task.notFound"))
	assert.Equal(t, "Tâche introuvable", tr.Translate(language.French, "task.notFound"))
	assert.Equal(t, "Tarea no encontrada", tr.Translate(language.Spanish, "task.notFound"))
}

func TestTranslate_UnknownKeyPassesThrough(t *testing.T) {
	tr := NewTranslator("en")
	assert.Equal(t, "no.such.key", tr.Translate(language.English, "no.such.key"))
}

func TestNegotiate(t *testing.T) {
	tr := NewTranslator("en")

	tests := []struct {
		header   string
		expected language.Tag
	}{
		{"", language.English},
		{"fr-CH, fr;q=0.9, en;q=0.8", language.French},
		{"es", language.Spanish},
		{"ja", language.English},
		{"not a header;;;", language.English},
	}

	for _, test := range tests {
		t.Run(test.header, func(t *testing.T) {
			assert.Equal(t, test.expected, tr.Negotiate(test.header))
		})
	}
}

func TestLocaleFromContext(t *testing.T) {
	tr := NewTranslator("fr")

	assert.Equal(t, language.French, tr.LocaleFromContext(context.Background()))

	ctx := WithLocale(context.Background(), language.Spanish)
	assert.Equal(t, "Usuario no encontrado", tr.TranslateContext(ctx, "user.notFound"))
}

func TestMiddleware(t *testing.T) {
	tr := NewTranslator("en")

	var got language.Tag
	h := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = tr.LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Accept-Language", "es-MX")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, language.Spanish, got)
	assert.Equal(t, "es", rec.Header().Get("Content-Language"))
}
