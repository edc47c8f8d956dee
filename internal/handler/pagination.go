package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

// pageResponse — конверт постраничной выдачи.
type pageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// parsePage читает page и limit. Некорректные значения заменяются значениями по умолчанию.
func parsePage(r *http.Request) domain.Page {
	return domain.Page{
		Number: queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", domain.DefaultPageLimit),
	}.Normalize()
}

func newPageResponse[T any](r *http.Request, page domain.Page, total int64, results []T) pageResponse[T] {
	resp := pageResponse[T]{Count: total, Results: orEmpty(results)}
	if int64(page.Number*page.Limit) < total {
		next := pageURL(r, page.Number+1)
		resp.Next = &next
	}
	if page.Number > 1 {
		prev := pageURL(r, page.Number-1)
		resp.Previous = &prev
	}
	return resp
}

// pageURL строит абсолютную ссылку на соседнюю страницу, сохраняя остальные параметры.
func pageURL(r *http.Request, number int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := r.URL.Query()
	if number <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(number))
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: query.Encode()}
	return u.String()
}
