package textcodec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// 特殊处理的编码名称
const (
	UTF8    = "utf-8"
	UTF8BOM = "utf-8-sig"
)

// DefaultEncodings 默认解码顺序：带 BOM 的 UTF-8，失败后回退到 GBK
var DefaultEncodings = []string{UTF8BOM, "gbk"}

// ErrUndecodable 所有候选编码都无法解码
var ErrUndecodable = errors.New("无法按任何候选编码解码")

type candidate struct {
	name string
	enc  encoding.Encoding
}

// Codec 按候选编码顺序解码文件内容
type Codec struct {
	candidates []candidate
}

// New 创建解码器，names 为空时使用 DefaultEncodings
func New(names []string) (*Codec, error) {
	if len(names) == 0 {
		names = DefaultEncodings
	}

	c := &Codec{}
	for _, raw := range names {
		name := Normalize(raw)
		switch name {
		case UTF8, UTF8BOM:
			c.candidates = append(c.candidates, candidate{name: name})
		default:
			enc, err := htmlindex.Get(name)
			if err != nil {
				return nil, fmt.Errorf("不支持的编码 %q: %w", raw, err)
			}
			c.candidates = append(c.candidates, candidate{name: name, enc: enc})
		}
	}
	return c, nil
}

// Names 返回解码顺序
func (c *Codec) Names() []string {
	names := make([]string, 0, len(c.candidates))
	for _, cand := range c.candidates {
		names = append(names, cand.name)
	}
	return names
}

// Decode 依次尝试候选编码，返回文本和实际使用的编码名称
func (c *Codec) Decode(data []byte) (string, string, error) {
	for _, cand := range c.candidates {
		text, ok := cand.decode(data)
		if ok {
			return text, cand.name, nil
		}
	}
	return "", "", fmt.Errorf("%w (尝试了 %s)", ErrUndecodable, strings.Join(c.Names(), ", "))
}

func (cand candidate) decode(data []byte) (string, bool) {
	switch cand.name {
	case UTF8:
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	case UTF8BOM:
		if !utf8.Valid(data) {
			return "", false
		}
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		return string(out), true
	}

	out, err := cand.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	// x/text 的解码器遇到非法字节会写入替换字符而不是报错
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

// EncodeWithBOM 以 UTF-8 编码并在开头写入 BOM
func EncodeWithBOM(text string) ([]byte, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	out, err := unicode.UTF8BOM.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("编码失败: %w", err)
	}
	return out, nil
}

// Normalize 统一编码名称的写法
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "utf8", "utf_8":
		return UTF8
	case "utf8-sig", "utf_8_sig", "utf-8-bom", "utf8bom":
		return UTF8BOM
	}
	return name
}
