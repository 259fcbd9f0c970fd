// Package internal provides the core types and implementation behind the
// readiness host application.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/readiness" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: chi routing, application settings, readiness tracker and graceful shutdown
//   - Context: request/response access; also a context.Context
//   - Router, Handler, HandlerFunc, Middleware: route declaration
//   - HTTPError and DefaultErrorHandler: JSON error rendering
//
// # Health Endpoints
//
// WithHealth builds a health.Tracker over the app settings (or a custom
// health.Store) and registers the liveness and readiness routes. The readiness
// route returns *health.Error to the error handler, which renders it as
//
//	{"name":"BadRequest","message":"Application is not ready","code":400,"className":"bad-request","data":{}}
//
// # Settings
//
// The app owns a key/value settings store. The readiness registry lives there
// under Config.RegistryKey unless WithRegistryStore says otherwise, and custom
// checks can read it through SettingPresent.
package internal
