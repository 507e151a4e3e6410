package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusCreated).
		BodyHTML("<p>test</p>").
		Write(w)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "<p>test</p>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerExpenseCreated("2024-10-10").
		Trigger("form:reset", struct{}{}).
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	for _, part := range []string{`"expense:created"`, `"date":"2024-10-10"`, `"form:reset"`} {
		assert.Contains(t, trigger, part)
	}
}

func TestHTMXResponseBuilder_NoTriggers(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().Write(w)
	assert.Empty(t, w.Header().Get("HX-Trigger"))
}

func TestErrorResponsesEscape(t *testing.T) {
	tests := []struct {
		builder *HTMXResponseBuilder
		status  int
	}{
		{BadRequestError("<b>x</b>"), http.StatusBadRequest},
		{UnprocessableEntityError("<b>x</b>"), http.StatusUnprocessableEntity},
		{InternalServerError("<b>x</b>"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		tt.builder.Write(w)
		assert.Equal(t, tt.status, w.Code)
		assert.NotContains(t, w.Body.String(), "<b>")
		assert.Contains(t, w.Body.String(), `class="error"`)
	}

	w := httptest.NewRecorder()
	SuccessResponse("saved & done").Write(w)
	assert.Contains(t, w.Body.String(), "saved &amp; done")
}

func TestMethodNotAllowedError(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowedError("GET, POST").Write(w)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
}
