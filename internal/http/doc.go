// Package http exposes the Mahalla store over a JSON API.
//
// The router serves a single kiosk session: signing in replaces whoever was
// signed in before. Endpoints:
//   - POST /login: body {"username","password"}. Response {"user","home","areas"}.
//   - POST /logout: ends the session. Returns 204 No Content even when nobody is signed in.
//   - GET /session: the signed in user and the areas their role may open.
//   - GET /orders, POST /orders, PUT /orders/{id}, POST /orders/{id}/close,
//     GET /orders/{id}/review: resident order pages exchanging the `orderDTO`
//     payload defined in order_handler.go. Orders of other residents answer 404.
//   - GET /profile, PUT /profile: the resident's own residence details.
//   - GET /dashboard/orders?status=&q=, GET /dashboard/orders.csv,
//     POST /dashboard/orders/{id}/cancel, GET /dashboard/orders/{id}/review:
//     administrator order dashboard.
//   - GET /users?q=, POST /users, PUT /users/{id}: administrator resident management.
//   - GET /reviews?q=, GET /statistics: administrator reports.
//
// Requests without a session answer 401 and requests from a role that may
// not open the area answer 403, both with an `error_code`. Edits that change
// nothing answer 200 with {"changed":false}.
package http
