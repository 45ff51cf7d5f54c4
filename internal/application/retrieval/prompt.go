package retrieval

import (
	"fmt"
	"strings"

	"rag-interview-api/internal/domain/entity"
)

// answerPromptTemplate 问答生成的提示词模板
const answerPromptTemplate = `You are a helpful AI assistant that answers questions based on the provided context and documents.

Chat History:
%s

Retrieved Documents:
%s

User Query: %s

Instructions:
- Answer the user's query using the information from the retrieved documents
- If the information is not available in the documents, say so clearly
- Be conversational and helpful
- Take into account the chat history for context
- If the user is asking about interview booking, help them with that process

Answer:`

// BuildPrompt 构建问答提示词
func BuildPrompt(query string, docs []RetrievedChunk, chatHistory string) string {
	var docsContext strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&docsContext, "Document %d:\n%s\n\n", i+1, doc.Text)
	}
	return fmt.Sprintf(answerPromptTemplate, chatHistory, docsContext.String(), query)
}

// FormatHistory 将会话历史格式化为提示词上下文。
// 输入为最新在前的轮次，输出按时间正序排列。
func FormatHistory(turns []entity.SessionTurn) string {
	var sb strings.Builder
	for i := len(turns) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "User: %s\nAssistant: %s\n\n", turns[i].Question, turns[i].Answer)
	}
	return sb.String()
}
