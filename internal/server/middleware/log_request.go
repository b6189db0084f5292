package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	"github.com/nguyentranbao-ct/product-gateway/pkg/ctxval"
)

// maxLoggedBody caps how much of a JSON body ends up in one log line.
const maxLoggedBody = 4 << 10

type (
	// LogRequestConfig decides per request what goes into the access log.
	// Nil predicates keep bodies on and query params off.
	LogRequestConfig struct {
		Logger       Logger
		Enabled      func(c echo.Context) bool
		RequestID    func(c echo.Context) string
		RequestBody  func(c echo.Context) bool
		ResponseBody func(c echo.Context) bool
		FormValues   func(c echo.Context) bool
		QueryParams  func(c echo.Context) bool
	}
	bodyDumpWriter struct {
		io.Writer
		http.ResponseWriter
	}
)

func always(echo.Context) bool { return true }

func never(echo.Context) bool { return false }

// LogRequest writes one line per request: 5xx at error, 4xx at warn and the
// rest at info.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Enabled == nil {
		config.Enabled = always
	}
	if config.RequestBody == nil {
		config.RequestBody = always
	}
	if config.ResponseBody == nil {
		config.ResponseBody = always
	}
	if config.FormValues == nil {
		config.FormValues = never
	}
	if config.QueryParams == nil {
		config.QueryParams = never
	}
	if config.RequestID == nil {
		config.RequestID = GetRequestID
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Enabled(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()
			logReqBody := config.RequestBody(c)
			logResBody := config.ResponseBody(c)

			var reqBody []byte
			if logReqBody && isJSON(req.Header.Get(echo.HeaderContentType)) {
				reqBody, _ = io.ReadAll(req.Body)
				req.Body = io.NopCloser(bytes.NewReader(reqBody))
			}
			var resBuf bytes.Buffer
			if logResBody {
				res.Writer = &bodyDumpWriter{
					Writer:         io.MultiWriter(res.Writer, &resBuf),
					ResponseWriter: res.Writer,
				}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := make([]interface{}, 0, 32)
			args = append(args,
				"status", res.Status,
				"method", req.Method,
				"route", c.Path(),
				"uri", req.RequestURI,
				"latency_ms", time.Since(start).Milliseconds(),
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
				"request_id", config.RequestID(c),
			)
			if subject, kind, ok := ctxval.Caller(req.Context()); ok {
				args = append(args, "subject", subject, "credential", kind)
			}
			if kind := models.AsKind(err); kind != "" {
				args = append(args, "error_code", kind)
			}
			if config.QueryParams(c) {
				if query := c.QueryParams(); len(query) > 0 {
					args = append(args, "query", query)
				}
			}
			if config.FormValues(c) && len(req.Form) > 0 {
				args = append(args, "form", req.Form)
			}
			if body := loggableJSON(reqBody); body != nil {
				args = append(args, "request_body", body)
			}
			if logResBody && isJSON(res.Header().Get(echo.HeaderContentType)) {
				if body := loggableJSON(resBuf.Bytes()); body != nil {
					args = append(args, "response_body", body)
				}
			}

			switch {
			case res.Status >= http.StatusInternalServerError:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				config.Logger.Errorw("request", args...)
			case res.Status >= http.StatusBadRequest:
				config.Logger.Warnw("request", args...)
			default:
				config.Logger.Infow("request", args...)
			}

			return err
		}
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
}

// loggableJSON returns body as raw JSON, or a truncated string when it is too
// large or not valid JSON.
func loggableJSON(body []byte) interface{} {
	switch {
	case len(body) == 0:
		return nil
	case len(body) > maxLoggedBody:
		return string(body[:maxLoggedBody]) + "...(truncated)"
	case !json.Valid(body):
		return string(body)
	default:
		return json.RawMessage(body)
	}
}

func (w *bodyDumpWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}
