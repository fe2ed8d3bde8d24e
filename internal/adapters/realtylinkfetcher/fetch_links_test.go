package realtylinkfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"realtylink-parser-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, serverURL string) *RealtylinkFetcherAdapter {
	t.Helper()
	adapter, err := NewRealtylinkFetcherAdapter(serverURL, "127.0.0.1", 1, 0)
	require.NoError(t, err)
	return adapter
}

func indexPageHTML(hrefs []string, nextClass string) string {
	body := "<html><body><ul>"
	for _, href := range hrefs {
		body += fmt.Sprintf(`<li><a class="a-more-detail" href="%s">details</a></li>`, href)
	}
	body += fmt.Sprintf(`</ul><ul class="pager"><li class="%s"><a href="#">next</a></li></ul></body></html>`, nextClass)
	return body
}

func TestFetchLinks_Pagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			fmt.Fprint(w, indexPageHTML([]string{"/en/prop/1", "/en/prop/2"}, "next"))
		case "2":
			fmt.Fprint(w, indexPageHTML([]string{"/en/prop/3"}, "next inactive"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	criteria := domain.SearchCriteria{Name: "test", CategoryURL: server.URL + "/en/properties~for-rent", TargetCount: 60}

	links, nextPage, err := adapter.FetchLinks(context.Background(), criteria, 1)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, 2, nextPage)
	assert.Equal(t, server.URL+"/en/prop/1", links[0].URL)
	assert.Equal(t, server.URL+"/en/prop/2", links[1].URL)
	assert.Equal(t, 0, links[0].Position)
	assert.Equal(t, 1, links[1].Position)

	// Вторая страница: кнопка next неактивна — пагинация закончена.
	links, nextPage, err = adapter.FetchLinks(context.Background(), criteria, 2)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 0, nextPage)
	assert.Equal(t, server.URL+"/en/prop/3", links[0].URL)
}

func TestFetchLinks_EmptyPageStopsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexPageHTML(nil, "next"))
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	criteria := domain.SearchCriteria{Name: "test", CategoryURL: server.URL + "/en/properties~for-rent", TargetCount: 60}

	links, nextPage, err := adapter.FetchLinks(context.Background(), criteria, 1)
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Equal(t, 0, nextPage)
}

func TestFetchLinks_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	criteria := domain.SearchCriteria{Name: "test", CategoryURL: server.URL + "/en/properties~for-rent", TargetCount: 60}

	links, _, err := adapter.FetchLinks(context.Background(), criteria, 1)
	require.Error(t, err)
	assert.Nil(t, links)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
}

func TestBuildPageURL(t *testing.T) {
	base := "https://realtylink.org/en/properties~for-rent?uc=0"

	first, err := buildPageURL(base, 1)
	require.NoError(t, err)
	assert.Equal(t, base, first)

	third, err := buildPageURL(base, 3)
	require.NoError(t, err)
	assert.Contains(t, third, "page=3")
	assert.Contains(t, third, "uc=0")
}
