package quiz

import "fmt"

// Delimiter opens every question block, both in the prompt and in the model's reply.
const Delimiter = "## MCQ"

// mcqPrompt is filled with the document text and the question count.
const mcqPrompt = `You are an AI assistant helping the user generate multiple-choice questions (MCQs) based on the following text:
'%s'
Please generate %d MCQs from the text. Each question should have:
- A clear question
- Four answer options (labeled A, B, C, D)
- The correct answer clearly indicated
Format:
` + Delimiter + `
Question: [question]
A) [option A]
B) [option B]
C) [option C]
D) [option D]
Correct Answer: [correct option]
`

// BuildPrompt embeds text verbatim and count unmodified.
func BuildPrompt(text string, count int) string {
	return fmt.Sprintf(mcqPrompt, text, count)
}
