// Package i18n resolves message keys into user-facing text for the locale
// negotiated from the request.
package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type contextKey string

const contextKeyLocale contextKey = "locale"

var messages = map[language.Tag]map[string]string{
	language.English: {
		"user.notFound":           "User not found",
		"organization.notFound":   "Organization not found",
		"event.notFound":          "Event not found",
		"eventProject.notFound":   "EventProject not found",
		"task.notFound":           "Task not found",
		"post.notFound":           "Post not found",
		"comment.notFound":        "Comment not found",
		"groupChat.notFound":      "Group chat not found",
		"tag.notFound":            "Tag not found",
		"user.notAuthorized":      "User is not authorized for performing this operation",
		"user.notAuthorizedAdmin": "User is not an admin of this organization",
		"user.notAuthenticated":   "User is not authenticated",
		"tag.alreadyExists":       "A tag with the same name already exists at this level",
		"tag.invalidParent":       "Parent tag does not belong to this organization",
		"tag.invalidName":         "Tag name must not be blank",
		"input.empty":             "No fields to update",
	},
	language.French: {
		"user.notFound":           "Utilisateur introuvable",
		"organization.notFound":   "Organisation introuvable",
		"event.notFound":          "Événement introuvable",
		"eventProject.notFound":   "Projet d'événement introuvable",
		"task.notFound":           "Tâche introuvable",
		"post.notFound":           "Publication introuvable",
		"comment.notFound":        "Commentaire introuvable",
		"groupChat.notFound":      "Discussion de groupe introuvable",
		"tag.notFound":            "Étiquette introuvable",
		"user.notAuthorized":      "L'utilisateur n'est pas autorisé à effectuer cette opération",
		"user.notAuthorizedAdmin": "L'utilisateur n'est pas administrateur de cette organisation",
		"user.notAuthenticated":   "L'utilisateur n'est pas authentifié",
		"tag.alreadyExists":       "Une étiquette du même nom existe déjà à ce niveau",
		"tag.invalidParent":       "L'étiquette parente n'appartient pas à cette organisation",
		"tag.invalidName":         "Le nom de l'étiquette ne peut pas être vide",
		"input.empty":             "Aucun champ à mettre à jour",
	},
	language.Spanish: {
		"user.notFound":           "Usuario no encontrado",
		"organization.notFound":   "Organización no encontrada",
		"event.notFound":          "Evento no encontrado",
		"eventProject.notFound":   "Proyecto de evento no encontrado",
		"task.notFound":           "Tarea no encontrada",
		"post.notFound":           "Publicación no encontrada",
		"comment.notFound":        "Comentario no encontrado",
		"groupChat.notFound":      "Chat grupal no encontrado",
		"tag.notFound":            "Etiqueta no encontrada",
		"user.notAuthorized":      "El usuario no está autorizado para realizar esta operación",
		"user.notAuthorizedAdmin": "El usuario no es administrador de esta organización",
		"user.notAuthenticated":   "El usuario no está autenticado",
		"tag.alreadyExists":       "Ya existe una etiqueta con el mismo nombre en este nivel",
		"tag.invalidParent":       "La etiqueta padre no pertenece a esta organización",
		"tag.invalidName":         "El nombre de la etiqueta no puede estar vacío",
		"input.empty":             "No hay campos para actualizar",
	},
}

// Translator maps message keys to localized text
type Translator struct {
	catalog   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
	fallback  language.Tag
}

// NewTranslator builds a translator over the bundled catalog. defaultLocale is
// used when negotiation fails; an unparseable value falls back to English.
func NewTranslator(defaultLocale string) *Translator {
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		fallback = language.English
	}

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	supported := []language.Tag{fallback}
	for tag, entries := range messages {
		for key, text := range entries {
			// keys are static and the texts contain no format verbs
			_ = b.SetString(tag, key, text)
		}
		if tag != fallback {
			supported = append(supported, tag)
		}
	}

	return &Translator{
		catalog:   b,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		fallback:  fallback,
	}
}

// Negotiate picks the best supported locale for an Accept-Language header value
func (t *Translator) Negotiate(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return t.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.fallback
	}
	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.fallback
	}
	return t.supported[idx]
}

// Translate returns the text for key in locale. Unknown keys are returned unchanged.
func (t *Translator) Translate(locale language.Tag, key string) string {
	p := message.NewPrinter(locale, message.Catalog(t.catalog))
	return p.Sprintf(key)
}

// TranslateContext translates key for the locale stored in ctx
func (t *Translator) TranslateContext(ctx context.Context, key string) string {
	return t.Translate(t.LocaleFromContext(ctx), key)
}

// WithLocale stores locale in ctx
func WithLocale(ctx context.Context, locale language.Tag) context.Context {
	return context.WithValue(ctx, contextKeyLocale, locale)
}

// LocaleFromContext returns the locale stored in ctx, or the default locale
func (t *Translator) LocaleFromContext(ctx context.Context) language.Tag {
	if locale, ok := ctx.Value(contextKeyLocale).(language.Tag); ok {
		return locale
	}
	return t.fallback
}

// Middleware negotiates the request locale from Accept-Language
func (t *Translator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := t.Negotiate(r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", locale.String())
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
	})
}
