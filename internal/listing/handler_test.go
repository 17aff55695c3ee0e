package listing

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisterRoutesLayout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewRepo(nil, nil)).RegisterRoutes(router.Group("/property-listing"))

	want := map[string]bool{
		"/property-listing/search":          false,
		"/property-listing/search/:id":      false,
		"/property-listing/property-types":  false,
		"/property-listing/listing-types":   false,
		"/property-listing/turnover-status": false,
		"/property-listing/cities":          false,
	}

	for _, route := range router.Routes() {
		if route.Method != "GET" {
			continue
		}
		if _, ok := want[route.Path]; ok {
			want[route.Path] = true
		} else {
			t.Errorf("unexpected route %s", route.Path)
		}
	}

	for path, seen := range want {
		if !seen {
			t.Errorf("route %s not registered", path)
		}
	}
}
