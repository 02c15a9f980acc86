package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// ImageKey 根据图片原始字节计算内容键（content key）。
// - 键 = 字节内容的 SHA-256 十六进制摘要 + 原始文件的小写扩展名，
//   例如 "9f86d081...f00a08.jpg"。
// - 纯函数：只依赖字节内容和扩展名，与文件名主体、上传时间等一切元信息无关，
//   因此跨进程、跨重启结果恒定，可直接用作去重键和对象存储键。
// - 哈希碰撞按不可能处理（密码学强度摘要），不同摘要即视为不同图片。
func ImageKey(data []byte, originalFilename string) string {
	sum := sha256.Sum256(data)

	ext := strings.ToLower(filepath.Ext(originalFilename))
	if ext == "" {
		ext = ".jpg"
	}

	return hex.EncodeToString(sum[:]) + ext
}
