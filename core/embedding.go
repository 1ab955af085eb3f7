package core

import (
	"strconv"
	"strings"
)

// Embedding 是物品/用户的嵌入向量。
// 维度由数据决定，同一模型版本内各向量维度应当一致（由训练侧保证，本层不校验）。
type Embedding []float64

// Dim 返回向量维度。
func (e Embedding) Dim() int {
	return len(e)
}

// Clone 返回向量的深拷贝。
func (e Embedding) Clone() Embedding {
	if e == nil {
		return nil
	}
	out := make(Embedding, len(e))
	copy(out, e)
	return out
}

// ParseEmbedding 解析逗号分隔的浮点串（如 "0.12,0.34,-0.56"）。
// 任一分量解析失败则整条失败（MALFORMED），由调用方跳过并计数。
func ParseEmbedding(s string) (Embedding, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, NewDomainError(ModuleEmbedding, ErrorCodeMalformed, "embedding: empty vector string")
	}
	parts := strings.Split(s, ",")
	emb := make(Embedding, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, NewDomainError(ModuleEmbedding, ErrorCodeMalformed, "embedding: malformed float token "+strconv.Quote(p))
		}
		emb = append(emb, f)
	}
	return emb, nil
}

// String 按批量文件格式序列化为逗号分隔串，与 ParseEmbedding 互逆。
func (e Embedding) String() string {
	if len(e) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range e {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return b.String()
}
