package devlog

import "fmt"

const promptTemplate = `You are %[1]s, a software engineer writing a quick status update for your personal portfolio.
Analyze your following raw GitHub commit history:

Raw Data:
%[2]s

Task: Write a SINGLE, casual but professional sentence about what you've been building lately.
Tone: Highly personal and authentic. Use "I". Sound like a human engineer talking to a friend.
Examples:
- "I've been deep in the backend refactoring the auth middleware for better security."
- "Just pushed some major updates to the rendering engine to smooth out animations."
- "Spending the weekend optimizing database queries for the TaskVault project."

Constraint: Keep it under 20 words. No robotic "%[1]s has updated" language. Be you.`

func buildPrompt(author, activity string) string {
	return fmt.Sprintf(promptTemplate, author, activity)
}
