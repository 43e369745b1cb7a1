// Package server provides HTTP routing, middleware, and the webhook intake endpoints.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering,
// and [BasicRouter.HandlerWith] scopes middleware to a single handler's routes.
//
// # Endpoints
//
// [WebhookHandler] serves POST /webhook. It decodes the record notification,
// runs the publish pipeline to completion, and answers 200 with the publish
// data or 400 with the pipeline's failure message. Malformed JSON is rejected
// before the pipeline starts. The pipeline runs on a context detached from
// the request, so a caller that gives up early does not abort remote writes
// already underway.
//
// [HealthHandler] serves GET / for deployment platform liveness probes.
//
// # Middleware Stack
//
// [NewWebhookRouter] assembles the standard stack:
//
//   - [RecoverMiddleware] turns handler panics into JSON 500 responses
//   - [LoggingMiddleware] logs one line per request with a generated id
//   - [CORSMiddleware] answers preflights and allows any origin
//   - [RateLimitMiddleware] applies a per-IP token bucket (webhook route only)
//   - [SecretMiddleware] enforces the X-Webhook-Secret header (webhook route only)
//
// The secret and rate limit are route-scoped so health probes stay
// unauthenticated and unthrottled.
package server
