package agent

import (
	"fmt"
	"strings"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/tools"
)

// systemPreamble frames the assistant's behaviour. The instruction not to
// repeat identical searches is the only guard against degenerate tool loops;
// it is advisory, the loop does not deduplicate calls mechanically.
const systemPreamble = `You are a helpful search assistant with access to several information sources.

Answer the following question step by step using the provided tools.
Be direct, concise, and informative in your final answer.
If you can't find a relevant answer after 2-3 search attempts, summarize what you've learned and acknowledge limitations.
Always cite your sources in the final answer.
Avoid repeating the same search with identical parameters.`

const formatInstructions = `Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [%s]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original question`

// buildSystemPrompt assembles the preamble, the tool catalog, and the step
// grammar the parser expects.
func buildSystemPrompt(reg *tools.Registry) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble)
	sb.WriteString("\n\nYou have access to the following tools:\n\n")
	for _, t := range reg.Tools() {
		fmt.Fprintf(&sb, "%s: %s\n", t.Name(), t.Description())
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, formatInstructions, strings.Join(reg.Names(), ", "))
	return sb.String()
}

func buildUserPrompt(question, scratchpad string) string {
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\nThought:")
	if scratchpad != "" {
		sb.WriteString(scratchpad)
	}
	return sb.String()
}

// scratchpadEntry renders one completed step back into the prompt.
func scratchpadEntry(s Step) string {
	return fmt.Sprintf(" %s\nAction: %s\nAction Input: %s\nObservation: %s\nThought:",
		s.Thought, s.Tool, s.ToolInput, s.Observation)
}

// correctiveEntry is injected after unparsable output so the model retries
// in the required format instead of the whole run aborting.
func correctiveEntry(badOutput string, toolNames []string) string {
	return fmt.Sprintf(" %s\nObservation: Invalid format. Reply with either an Action and Action Input (the Action must be one of [%s]), or a Final Answer, exactly in the required format.\nThought:",
		strings.TrimSpace(badOutput), strings.Join(toolNames, ", "))
}

// unknownToolEntry corrects a tool choice that is not in the registry.
func unknownToolEntry(name string, toolNames []string) string {
	return fmt.Sprintf(" \nObservation: %s is not a valid tool. Choose one of [%s].\nThought:",
		name, strings.Join(toolNames, ", "))
}

const synthesisInstruction = `You could not finish the research within the allowed number of searches. Using only the observations gathered so far, give your best final answer to the question. Acknowledge any gaps. Do not request any more tools or searches.`

func buildSynthesisPrompt(question, scratchpad string) string {
	var sb strings.Builder
	sb.WriteString(synthesisInstruction)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	if scratchpad != "" {
		sb.WriteString("\n\nObservations so far:\nThought:")
		sb.WriteString(scratchpad)
	}
	sb.WriteString("\n\nFinal Answer:")
	return sb.String()
}
