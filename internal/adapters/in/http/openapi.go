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

//go:embed openapi.yml
var contractYAML []byte

var registerDocOnce sync.Once

// Contract is the OpenAPI description of the /api/v1 surface. Requests are
// checked against it before they reach a handler.
type Contract struct {
	doc    *openapi3.T
	router routers.Router
	json   []byte
}

// LoadContract parses and validates the embedded OpenAPI document.
func LoadContract() (*Contract, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(contractYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAPI router: %w", err)
	}

	rendered, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to render OpenAPI document: %w", err)
	}

	return &Contract{doc: doc, router: router, json: rendered}, nil
}

// Document returns the parsed OpenAPI document.
func (c *Contract) Document() *openapi3.T {
	return c.doc
}

// ReadDoc returns the document as JSON, for the swagger UI.
func (c *Contract) ReadDoc() string {
	return string(c.json)
}

// RegisterRoutes serves the document at /openapi.json and the swagger UI
// under /swagger/.
func (c *Contract) RegisterRoutes(e *echo.Echo) {
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, c)
	})

	e.GET("/openapi.json", func(ctx echo.Context) error {
		return ctx.JSONBlob(http.StatusOK, c.json)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}

// ValidateRequest checks req against the operation it addresses. It returns
// routers.ErrPathNotFound or routers.ErrMethodNotAllowed for requests the
// document does not describe.
func (c *Contract) ValidateRequest(req *http.Request) (string, error) {
	route, pathParams, err := c.router.FindRoute(req)
	if err != nil {
		return "", err
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			MultiError: true,
		},
	}
	return route.Operation.OperationID, openapi3filter.ValidateRequest(req.Context(), input)
}

// ContractMiddleware rejects /api/v1 requests that do not match the
// contract with a 400 before binding. Paths outside the document pass
// through untouched.
func ContractMiddleware(contract *Contract, recorder Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			operation, err := contract.ValidateRequest(c.Request())
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, routers.ErrPathNotFound), errors.Is(err, routers.ErrMethodNotAllowed):
				return next(c)
			}

			recorder.RecordRejected(operation, "validation")
			return c.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "request does not match the API contract",
				Details: contractViolations(err),
			})
		}
	}
}

// contractViolations flattens a validation error into field to reason.
func contractViolations(err error) map[string]string {
	var multi openapi3.MultiError
	if !errors.As(err, &multi) {
		multi = openapi3.MultiError{err}
	}

	violations := make(map[string]string, len(multi))
	for _, e := range multi {
		field, reason := violation(e)
		violations[field] = reason
	}
	return violations
}

func violation(err error) (field, reason string) {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		reason = reqErr.Reason
		if reason == "" && reqErr.Err != nil {
			reason = reqErr.Err.Error()
		}
		return reqErr.Parameter.Name, reason
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			return strings.Join(pointer, "."), schemaErr.Reason
		}
		return "body", schemaErr.Reason
	}

	if reqErr != nil && reqErr.RequestBody != nil {
		return "body", reqErr.Error()
	}
	return "request", err.Error()
}
