package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
	"time"
)

type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info 는 하나의 HTTP 요청에 대한 트레이싱 정보를 담는다.
// spanSeq 는 같은 요청 안에서 DB, 메일, 스토리지 호출마다 1,2,3,... 으로 증가한다.
type Info struct {
	RequestID string
	spanSeq   int64
}

// GenerateID 는 트레이싱에 사용할 랜덤 ID를 생성한다.
func GenerateID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UTC().Format("20060102T150405.000000000")
	}
	return hex.EncodeToString(b[:])
}

// WithRequestAndSpan 은 Request ID와 초기 Span 값을 담은 새 컨텍스트를 반환한다.
func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID, spanSeq: initialSpan})
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.RequestID
}

// CurrentSpanID 는 현재 span 시퀀스를 증가시키지 않고 반환한다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	val := atomic.LoadInt64(&info.spanSeq)
	if val <= 0 {
		return "0"
	}
	return strconv.FormatInt(val, 10)
}

// NextSpanID 는 spanSeq 를 1 증가시키고 (requestID, spanID) 를 반환한다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	if val <= 0 {
		val = 1
	}
	return info.RequestID, strconv.FormatInt(val, 10)
}

// Fields 는 로그에 붙일 request_id/span_id 를 반환하며 span 을 하나 소비한다.
func Fields(ctx context.Context) map[string]any {
	requestID, spanID := NextSpanID(ctx)
	return map[string]any{"request_id": requestID, "span_id": spanID}
}
