package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Unauthorized("нет токена"), http.StatusUnauthorized},
		{Forbidden("чужой ресурс"), http.StatusForbidden},
		{NotFound("нет такого"), http.StatusNotFound},
		{InvalidState("неверный статус"), http.StatusBadRequest},
		{Validation("плохие данные"), http.StatusBadRequest},
		{Duplicate("уже есть"), http.StatusConflict},
		{Conflict("гонка"), http.StatusConflict},
		{Internal("сломалось"), http.StatusInternalServerError},
		{errors.New("сырая ошибка"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestCodeOf_Wrapped(t *testing.T) {
	base := errors.New("нет строки в БД")
	wrapped := Wrap(base, CodeNotFound, "заказ не найден")
	deeper := fmt.Errorf("service: %w", wrapped)

	assert.Equal(t, CodeNotFound, CodeOf(deeper))
	assert.True(t, IsCode(deeper, CodeNotFound))
	assert.True(t, errors.Is(deeper, base))
}

func TestUserMessage_MasksUnclassified(t *testing.T) {
	assert.Equal(t, "заказ не найден", UserMessage(NotFound("заказ не найден")))
	assert.Equal(t, "внутренняя ошибка сервера", UserMessage(errors.New("pq: connection refused")))
}
