package swagger

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/shelflife/api-contract"
)

const (
	DocsPath     = "/docs"
	SpecYAMLPath = "/docs/openapi.yml"
	SpecJSONPath = "/docs/openapi.json"

	swaggerUIVersion = "5.29.3"
)

// specJSON renders the embedded contract as JSON once, after validating it.
var specJSON = sync.OnceValues(func() ([]byte, error) {
	doc, err := apicontract.Load()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
})

// Register mounts the Swagger UI and both renderings of the API contract.
func Register(r chi.Router) {
	page := []byte(renderPage(SpecYAMLPath))
	r.Get(DocsPath, serveBytes("text/html; charset=utf-8", page))
	r.Get(SpecYAMLPath, serveBytes("application/yaml", apicontract.GetSpecBytes()))

	r.Get(SpecJSONPath, func(w http.ResponseWriter, _ *http.Request) {
		body, err := specJSON()
		if err != nil {
			http.Error(w, "api contract unavailable", http.StatusInternalServerError)
			return
		}
		serveBytes("application/json", body)(w, nil)
	})
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}

func renderPage(specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>shelflife API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@%[1]s/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@%[1]s/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%[2]s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      displayRequestDuration: true,
      tryItOutEnabled: true,
    });
  };
</script>
</body>
</html>
`, swaggerUIVersion, specPath)
}
