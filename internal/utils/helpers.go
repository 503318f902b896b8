package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxInputSize 单次读取的文本上限 (16MB)
const MaxInputSize = 16 << 20

// ReadText 读取待扫描的文本
// path 为 "-" 时从 stdin 读取
func ReadText(path string, stdin io.Reader) (string, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("打开输入文件失败: %w", err)
		}
		defer file.Close()
		r = file
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return "", fmt.Errorf("读取输入失败: %w", err)
	}
	if len(data) > MaxInputSize {
		return "", fmt.Errorf("输入超过 %d 字节上限", MaxInputSize)
	}
	return string(data), nil
}

// ReadLines 按行读取,跳过空行和 # 注释行
func ReadLines(r io.Reader) ([]string, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取输入失败: %w", err)
	}
	return lines, nil
}
