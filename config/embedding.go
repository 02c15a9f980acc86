package config

// EmbeddingConfig 句向量模型配置。
// - 默认模型为 all-MiniLM-L6-v2 的 ONNX 导出，输出维度 384。
// - Dimension 必须与 captions 表的 VECTOR(D) 列定义一致，且在库表生命周期内不可变更；
//   换用不同维度的模型意味着重建 captions 表。
type EmbeddingConfig struct {
	ModelPath     string `mapstructure:"model_path" json:"model_path" yaml:"model_path"`             // ONNX 模型文件路径
	TokenizerPath string `mapstructure:"tokenizer_path" json:"tokenizer_path" yaml:"tokenizer_path"` // tokenizer.json 路径
	OnnxLibPath   string `mapstructure:"onnx_lib_path" json:"onnx_lib_path" yaml:"onnx_lib_path"`    // onnxruntime 动态库路径
	Dimension     int    `mapstructure:"dimension" json:"dimension" yaml:"dimension"`                // 输出向量维度
	MaxSeqLen     int    `mapstructure:"max_seq_len" json:"max_seq_len" yaml:"max_seq_len"`          // 最大序列长度
}
