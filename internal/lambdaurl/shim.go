// Package lambdaurl adapts the prediction service to an AWS Lambda
// Function URL. The function is public (auth type NONE) with wide-open
// CORS, matching the provisioned endpoint.
package lambdaurl

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/dryerd/dryerd/internal/features"
	"github.com/dryerd/dryerd/internal/models"
	"github.com/dryerd/dryerd/internal/predict"
)

// HandlerFunc is the signature lambda.Start expects for Function URL
// invocations.
type HandlerFunc func(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error)

// Handler builds the Function URL handler over a prediction service.
// Failures come back as structured responses, never as Go errors: a
// returned error would surface as an unhandled function failure with
// no CORS headers and no usable status code.
func Handler(svc *predict.Service) HandlerFunc {
	return func(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		raw, ok := req.QueryStringParameters["q"]
		if !ok || raw == "" {
			return respond(http.StatusBadRequest, "missing query parameter q"), nil
		}

		res, err := svc.Predict(ctx, raw)
		if err != nil {
			var malformed *features.MalformedInputError
			if errors.As(err, &malformed) {
				return respond(http.StatusBadRequest, malformed.Error()), nil
			}
			if errors.Is(err, models.ErrRemoteNotFound) {
				return respond(http.StatusInternalServerError, fmt.Sprintf("model unavailable: %v", err)), nil
			}
			return respond(http.StatusInternalServerError, fmt.Sprintf("prediction failed: %v", err)), nil
		}

		return respond(http.StatusOK, res.HumanBody()), nil
	}
}

func respond(status int, body string) events.LambdaFunctionURLResponse {
	return events.LambdaFunctionURLResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Access-Control-Allow-Origin": "*",
			"Content-Type":                "text/plain; charset=utf-8",
		},
		Body: body,
	}
}
