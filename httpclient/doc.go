// Package httpclient is a minimal request/response client for application
// code and web font loading.
//
// [FetchClient] runs on net/http; in a GOOS=js build that transport is
// the browser fetch API, so the same code serves native and web hosts.
// [FakeClient] refuses every request.
package httpclient
