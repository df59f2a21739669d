package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// OpenDailyLogFile mở (hoặc tạo) file logs/app-YYYY-MM-DD.log trong dir
func OpenDailyLogFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	name := filepath.Join(dir, fmt.Sprintf("app-%s.log", now.Format("2006-01-02")))
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// TeeStdLog ghi log chuẩn ra cả stdout và file log trong ngày.
// Caller phải đóng file trả về khi tắt server.
func TeeStdLog(dir string) (io.Closer, error) {
	f, err := OpenDailyLogFile(dir, time.Now())
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	return f, nil
}
