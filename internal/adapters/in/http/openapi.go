package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiYAML []byte

// docsInstance is the swag registry name the documentation UI reads from.
const docsInstance = "qrcafe"

var registerDocs sync.Once

// APIDocs is the OpenAPI description of the server. It validates incoming
// API requests and backs the documentation UI.
type APIDocs struct {
	router routers.Router
	json   string
}

// LoadAPIDocs parses and validates the embedded OpenAPI document.
func LoadAPIDocs(ctx context.Context) (*APIDocs, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	docs := &APIDocs{router: router, json: string(raw)}
	registerDocs.Do(func() { swag.Register(docsInstance, docs) })
	return docs, nil
}

// ReadDoc returns the document as JSON for the swag registry.
func (d *APIDocs) ReadDoc() string {
	return d.json
}

// ValidateRequests rejects requests whose parameters or body do not match the
// document with 400. Routes the document does not describe pass through.
// Authentication is left to RequireStaff.
func (d *APIDocs) ValidateRequests() echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := d.router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return writeError(c, http.StatusBadRequest, validationMessage(err))
			}
			return next(c)
		}
	}
}

// mount serves the raw document and the Swagger UI.
func (d *APIDocs) mount(e *echo.Echo) {
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", openapiYAML)
	})
	e.GET("/docs/*", echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(docsInstance)))
}

// validationMessage keeps the failing field and reason, dropping the schema dump.
func validationMessage(err error) string {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return err.Error()
	}

	message := schemaErr.Reason
	if path := schemaErr.JSONPointer(); len(path) > 0 {
		message = strings.Join(path, ".") + ": " + message
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		message = reqErr.Parameter.Name + ": " + message
	}
	return message
}
