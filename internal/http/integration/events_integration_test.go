package integration_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func expoXP(cityID string) string {
	return fmt.Sprintf(`{"id":null,"name":"Expo XP","date":%q,"url":"https://expoxp.com.br","cityId":%s}`, nextMonth(), cityID)
}

func TestEvents_CreateAsClientAndAdmin(t *testing.T) {
	for _, acc := range []account{client, admin} {
		t.Run(acc.username, func(t *testing.T) {
			app := newTestApp(t)
			token := app.login(t, acc)

			w := app.do(t, http.MethodPost, "/events", token, expoXP("1"))
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			body := w.Body.String()
			require.Positive(t, gjson.Get(body, "id").Int())
			require.Equal(t, "Expo XP", gjson.Get(body, "name").String())
			require.Equal(t, nextMonth(), gjson.Get(body, "date").String())
			require.Equal(t, "https://expoxp.com.br", gjson.Get(body, "url").String())
			require.Equal(t, int64(1), gjson.Get(body, "cityId").Int())
		})
	}
}

func TestEvents_CreateWithoutTokenIsUnauthorized(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/events", "", expoXP("1"))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEvents_InvalidTokenIsUnauthorizedEvenOnReads(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/events", "not-a-jwt", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/events", "not-a-jwt", expoXP("1"))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEvents_PastDateIsRejected(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, client)

	body := fmt.Sprintf(`{"id":null,"name":"Expo XP","date":%q,"url":"https://expoxp.com.br","cityId":1}`, yesterday())
	w := app.do(t, http.MethodPost, "/events", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	resp := w.Body.String()
	require.Equal(t, int64(1), gjson.Get(resp, "errors.#").Int())
	require.Equal(t, "date", gjson.Get(resp, "errors.0.fieldName").String())
	require.Equal(t, "A data do evento não pode ser passada", gjson.Get(resp, "errors.0.message").String())
}

func TestEvents_NullCityIsRejected(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, client)

	w := app.do(t, http.MethodPost, "/events", token, expoXP("null"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	require.Equal(t, "cityId", gjson.Get(w.Body.String(), "errors.0.fieldName").String())
	require.Equal(t, "Campo requerido", gjson.Get(w.Body.String(), "errors.0.message").String())
}

func TestEvents_BlankNameIsRejectedInEnglish(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, client)

	body := fmt.Sprintf(`{"id":null,"name":" ","date":%q,"url":"","cityId":1}`, nextMonth())
	w := app.do(t, http.MethodPost, "/events", token, body, "Accept-Language", "en-US")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "Invalid data", gjson.Get(w.Body.String(), "message").String())
	require.Equal(t, "Required field", gjson.Get(w.Body.String(), "errors.0.message").String())
}

func TestEvents_UnknownCityIsReferenceNotFound(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, client)

	w := app.do(t, http.MethodPost, "/events", token, expoXP("9999"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	body := w.Body.String()
	require.Equal(t, "reference_not_found", gjson.Get(body, "error").String())
	require.Equal(t, "cityId", gjson.Get(body, "errors.0.fieldName").String())
	require.Equal(t, "Cidade não encontrada", gjson.Get(body, "errors.0.message").String())

	// nothing was persisted
	w = app.do(t, http.MethodGet, "/events", "", "")
	require.Equal(t, int64(4), gjson.Get(w.Body.String(), "totalElements").Int())
}

func TestEvents_MalformedBodies(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, client)

	w := app.do(t, http.MethodPost, "/events", token, `{"name":"Expo XP","date":"12/25/2030","cityId":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "date", gjson.Get(w.Body.String(), "details.field").String())

	w = app.do(t, http.MethodPost, "/events", token, `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/events", token, expoXP("1"), "Content-Type", "text/plain")
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestEvents_ListPage(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/events", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	require.True(t, gjson.Get(body, "content").IsArray())
	require.Equal(t, int64(4), gjson.Get(body, "totalElements").Int())
	require.Equal(t, int64(20), gjson.Get(body, "size").Int())
	require.True(t, gjson.Get(body, "first").Bool())

	dates := gjson.Get(body, "content.#.date").Array()
	for i := 1; i < len(dates); i++ {
		require.LessOrEqual(t, dates[i-1].String(), dates[i].String())
	}

	w = app.do(t, http.MethodGet, "/events?page=1&size=3", "", "")
	require.Equal(t, int64(1), gjson.Get(w.Body.String(), "numberOfElements").Int())
	require.True(t, gjson.Get(w.Body.String(), "last").Bool())

	w = app.do(t, http.MethodGet, "/events?page=-1", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvents_ListSeesNewEvents(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, client)

	// warm the list cache first
	w := app.do(t, http.MethodGet, "/events?cityId=1", "", "")
	before := gjson.Get(w.Body.String(), "totalElements").Int()

	w = app.do(t, http.MethodPost, "/events", token, expoXP("1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodGet, "/events?cityId=1", "", "")
	require.Equal(t, before+1, gjson.Get(w.Body.String(), "totalElements").Int())
}

func TestEvents_GetAndUpdate(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, client)

	w := app.do(t, http.MethodPost, "/events", token, expoXP("1"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := gjson.Get(w.Body.String(), "id").String()

	w = app.do(t, http.MethodGet, "/events/"+id, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Expo XP", gjson.Get(w.Body.String(), "name").String())

	update := fmt.Sprintf(`{"name":"Expo XP 2","date":%q,"url":"","cityId":2}`, nextMonth())
	w = app.do(t, http.MethodPut, "/events/"+id, token, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Expo XP 2", gjson.Get(w.Body.String(), "name").String())
	require.Equal(t, int64(2), gjson.Get(w.Body.String(), "cityId").Int())

	w = app.do(t, http.MethodPut, "/events/"+id, "", update)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/events/9999", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvents_CalendarExport(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/events/calendar.ics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar"))
	require.Equal(t, 4, strings.Count(w.Body.String(), "BEGIN:VEVENT"))
}
