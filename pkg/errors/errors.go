package errors

import "errors"

// ErrRemoteUnavailable 远端权威库不可达（网络/超时）：非致命，降级为仅本地缓存
var ErrRemoteUnavailable = errors.New("远端存储不可用")

// ErrNotFound 引用的记录不存在：视为已被处理，记录日志后忽略
var ErrNotFound = errors.New("记录不存在")
