package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// ErrInvalidInput 表示调用方提供的参数不满足契约（例如 top_k <= 0、查询文本为空）。
// 属于调用方错误，边界层应映射为 400。
var ErrInvalidInput = errors.New("invalid input")

// ErrImageDecode 表示图片字节无法被解码为已知的图片格式。
// 入库策略为：解码失败直接中止本次入库，不写任何行、不写任何对象。
// 属于调用方错误，边界层应映射为 400。
var ErrImageDecode = errors.New("image decode failed")

// ErrEmbeddingFailed 表示文本向量化失败（空文本、分词失败或模型推理失败）。
// 对该 Caption 而言是致命错误：不会产生部分写入。
var ErrEmbeddingFailed = errors.New("embedding failed")

// ErrReferentialIntegrity 表示尝试插入的 Caption 引用了不存在的 Image。
// 正常的入库流水线不可能触发它（Image 行先于 Caption 行产生），
// 一旦观察到说明流水线顺序被破坏，属于需要告警的不变量违例。
var ErrReferentialIntegrity = errors.New("caption references a non-existent image")
