package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"line-chart/internal/features/chart"
	"line-chart/internal/features/values"
	"line-chart/internal/infra/fs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	control *values.Control
	view    *chart.View
	handler http.Handler
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	control, err := values.NewControl(fs.NewPointStore(fs.NewKV(t.TempDir()), fs.ValuesKey), false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	view := chart.NewView(ctx, chart.ViewOptions{
		Calculator: chart.NewCalculator(chart.DefaultLayout()),
		Ticks:      chart.TickCount{X: 3, Y: 3},
		Surface:    chart.Surface{Width: 100, Height: 100},
		Window:     5 * time.Millisecond,
	})
	t.Cleanup(view.Close)
	control.OnChange(func(s values.Snapshot) { view.Update(s.Points, s.LogAxis) })

	return &testEnv{control: control, view: view, handler: New(control, view).Handler()}
}

func (e *testEnv) do(method, target, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	e := setup(t)
	w := e.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestAPI_AddListRemove(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodPost, "/api/values", `{"value":"12.5"}`, "application/json")
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.do(http.MethodPost, "/api/values", `{"value":3}`, "application/json")
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.do(http.MethodPost, "/api/values", `{"value":"nope"}`, "application/json")
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(http.MethodGet, "/api/values", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp valuesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Values, 3)
	assert.Equal(t, 12.5, resp.Values[0].Value)
	assert.Equal(t, 3.0, resp.Values[1].Value)
	assert.Equal(t, 0.0, resp.Values[2].Value)
	assert.Equal(t, 2, resp.Values[2].Index)
	assert.True(t, strings.HasSuffix(resp.Values[0].Date, "Z"))

	w = e.do(http.MethodDelete, "/api/values/0", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(http.MethodDelete, "/api/values/99", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(http.MethodDelete, "/api/values/x", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Len(t, e.control.Points(), 2)
}

func TestAPI_ConcurrentAddsGetDistinctIndexes(t *testing.T) {
	e := setup(t)
	const n = 8

	indexes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := e.do(http.MethodPost, "/api/values", `{"value":1}`, "application/json")
			if !assert.Equal(t, http.StatusCreated, w.Code) {
				return
			}
			var v valueJSON
			if assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)) {
				indexes <- v.Index
			}
		}()
	}
	wg.Wait()
	close(indexes)

	seen := make(map[int]bool)
	for idx := range indexes {
		assert.False(t, seen[idx], "index %d returned twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, n)

	g := e.view.Geometry()
	require.NotNil(t, g)
	assert.Len(t, g.Points, n)
}

func TestAPI_LogAxisAndChart(t *testing.T) {
	e := setup(t)
	for _, v := range []string{"1", "10", "100"} {
		_, _, err := e.control.Submit(v)
		require.NoError(t, err)
	}

	w := e.do(http.MethodGet, "/chart.svg", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "image/svg+xml")
	assert.Contains(t, w.Body.String(), `data-scale="linear"`)

	w = e.do(http.MethodPut, "/api/log-axis", `{"enabled":true}`, "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"log_axis":true}`, w.Body.String())

	w = e.do(http.MethodGet, "/chart.svg?width=300&height=150", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `viewBox="0,0,300,150"`)
	assert.Contains(t, w.Body.String(), `data-scale="log"`)

	w = e.do(http.MethodGet, "/chart.svg?width=-3", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_Resize(t *testing.T) {
	e := setup(t)
	_, _, err := e.control.Submit("1")
	require.NoError(t, err)

	w := e.do(http.MethodPost, "/api/resize", `{"width":400,"height":300}`, "application/json")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Eventually(t, func() bool {
		return e.view.Surface() == chart.Surface{Width: 400, Height: 300}
	}, time.Second, 5*time.Millisecond)

	w = e.do(http.MethodPost, "/api/resize", `{"width":-1,"height":300}`, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPage_FormsRoundTrip(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="value" value="0"`)
	assert.Contains(t, w.Body.String(), `viewBox="0,0,100,100"`)
	assert.NotContains(t, w.Body.String(), "<path ")

	form := url.Values{"value": {"7"}}.Encode()
	w = e.do(http.MethodPost, "/values", form, "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = e.do(http.MethodPost, "/log-axis", url.Values{"enabled": {"on"}}.Encode(), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, e.control.LogAxis())

	w = e.do(http.MethodGet, "/", "", "")
	body := w.Body.String()
	assert.Contains(t, body, "<path ")
	assert.Contains(t, body, "<span>7</span>")
	assert.Contains(t, body, `action="/values/0/remove"`)
	assert.Contains(t, body, " checked")

	w = e.do(http.MethodPost, "/values/0/remove", "", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, e.control.Points())

	w = e.do(http.MethodPost, "/log-axis", "", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.False(t, e.control.LogAxis())
}
