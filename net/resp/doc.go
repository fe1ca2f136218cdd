// Package resp writes JSON responses.
//
// Success writes its payload as the body. Failures are written as:
//
//	{
//	  "code": -201,               // Business error code
//	  "message": "Invalid page token",
//	  "errors": {...}             // Optional details
//	}
//
// Usage with gin:
//
//	resp.Success(c.Writer, page)
//	resp.Fail(c.Writer, resp.BadRequest("limit invalid"))
package resp
