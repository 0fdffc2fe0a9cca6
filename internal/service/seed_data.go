package service

import (
	"fmt"
	"strings"
)

var seedCategories = []string{
	"人工智能基础", "大语言模型", "机器学习", "深度学习", "自然语言处理", "AI应用", "AI伦理", "AI工具",
}

var seedTags = []string{
	"AI", "LLM", "GPT", "Transformer", "机器学习", "深度学习", "神经网络", "NLP",
	"预训练", "微调", "提示工程", "多模态", "生成式AI", "ChatGPT", "大模型", "AIGC",
}

type seedArticle struct {
	Title    string
	Category string
	Tags     []string
	Content  string
}

var seedArticles = []seedArticle{
	{
		Title:    "ChatGPT现象：大语言模型如何改变世界",
		Category: "大语言模型",
		Tags:     []string{"ChatGPT", "LLM", "大模型", "生成式AI"},
		Content: `[TOC]

# ChatGPT现象：大语言模型如何改变世界

## 什么是大语言模型？

大语言模型（Large Language Model，LLM）是一种基于深度学习的人工智能系统，通过在海量文本数据上进行训练，学会理解和生成自然语言。

### 核心技术：Transformer架构

- **自注意力机制**：能够关注输入序列中的重要信息
- **并行处理**：相比传统RNN具有更高的训练效率
- **位置编码**：理解文本中单词的顺序关系

## 训练过程

1. **预训练**：在大规模文本语料上学习语言的基本规律
2. **监督微调**：使用人工标注的对话数据进行优化
3. **强化学习**：通过人类反馈进一步改善模型表现
`,
	},
	{
		Title:    "Transformer架构详解",
		Category: "深度学习",
		Tags:     []string{"Transformer", "深度学习", "神经网络"},
		Content: `# Transformer架构详解

注意力机制的核心公式：

` + "```python" + `
def attention(q, k, v):
    scores = q @ k.T / math.sqrt(k.shape[-1])
    return softmax(scores) @ v
` + "```" + `

| 组件 | 作用 |
|------|------|
| 多头注意力 | 从多个子空间捕获依赖 |
| 前馈网络 | 逐位置的非线性变换 |
| 残差连接 | 缓解深层网络的梯度问题 |

Transformer 摒弃了循环结构[^1]。

[^1]: Vaswani et al., Attention Is All You Need, 2017.
`,
	},
	{
		Title:    "提示工程入门",
		Category: "AI应用",
		Tags:     []string{"提示工程", "LLM", "ChatGPT"},
		Content: `# 提示工程入门

好的提示词通常包含：
角色设定
任务描述
输出格式

> 提示工程是与模型沟通的艺术。

## 常用技巧

- 少样本示例（Few-shot）
- 思维链（Chain of Thought）
- 明确约束条件
`,
	},
	{
		Title:    "预训练与微调：大模型的两阶段范式",
		Category: "大语言模型",
		Tags:     []string{"预训练", "微调", "大模型"},
		Content: `# 预训练与微调

预训练阶段学习通用的语言知识，微调阶段让模型适配具体任务。

## 微调方法

- 全参数微调
- LoRA 等参数高效微调
- 指令微调
`,
	},
	{
		Title:    "多模态AI：融合视觉与语言",
		Category: "深度学习",
		Tags:     []string{"多模态", "AI", "AIGC"},
		Content: `# 多模态AI

多模态模型能够同时理解图像、文本与音频，是通向通用人工智能的重要一步。
`,
	},
}

// 额外生成的文章:标题、分类、标签
var seedGenerated = []struct {
	Title    string
	Category string
	Tags     []string
}{
	{"机器学习入门：从零开始理解AI", "机器学习", []string{"机器学习", "AI"}},
	{"神经网络的工作原理详解", "深度学习", []string{"神经网络", "深度学习", "AI"}},
	{"自然语言处理技术发展史", "自然语言处理", []string{"NLP", "AI"}},
	{"GPT系列模型演进之路", "大语言模型", []string{"GPT", "LLM", "大模型"}},
	{"AI代码助手：程序员的新伙伴", "AI工具", []string{"AI", "生成式AI"}},
	{"大模型的安全性与对齐问题", "AI伦理", []string{"AI", "大模型"}},
	{"强化学习：让AI学会决策", "机器学习", []string{"机器学习", "AI"}},
	{"人工智能的历史与未来", "人工智能基础", []string{"AI"}},
}

func generatedContent(title, category string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "本文属于「%s」系列，介绍该主题的核心概念与发展现状。\n\n", category)
	sb.WriteString("## 核心概念\n\n")
	sb.WriteString("- 基本定义与问题背景\n- 关键技术与典型方法\n- 代表性应用场景\n\n")
	sb.WriteString("## 发展趋势\n\n")
	sb.WriteString("随着算力与数据规模的增长，这一领域的研究前景十分广阔。\n")
	return sb.String()
}
