package main

import (
	"net/http"
	"testing"
)

func TestNewServer_NoWriteTimeoutForStreaming(t *testing.T) {
	srv := newServer(":8080", http.NewServeMux())

	// SSE 长连接不允许全局写超时，否则订阅会在到期时被统一切断
	if srv.WriteTimeout != 0 {
		t.Errorf("WriteTimeout 应为 0 以支持长连接推送，实际 %v", srv.WriteTimeout)
	}
	if srv.ReadTimeout == 0 {
		t.Error("ReadTimeout 不应为 0，慢客户端请求需要兜底")
	}
	if srv.IdleTimeout == 0 {
		t.Error("IdleTimeout 不应为 0")
	}
}
