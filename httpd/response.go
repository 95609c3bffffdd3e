// File: httpd/response.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpd

// ResponseBody is the payload every client receives.
const ResponseBody = "Hello world!"

// Response is the complete wire reply sent to every serviced connection,
// regardless of what (if anything) the client sent. There is no request
// parsing, no keep-alive, no content negotiation.
const Response = "HTTP/1.0 200 OK\r\n" +
	"Content-Length: 12\r\n" +
	"\r\n" +
	ResponseBody

// ReadBufferSize bounds the single read taken from each connection before
// replying. Anything beyond it is left unread; the connection closes anyway.
const ReadBufferSize = 2048
