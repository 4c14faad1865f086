package analyze

import "fmt"

// Language tags accepted by the prompts. Anything else falls back to English.
const (
	LangEnglish    = "en"
	LangPortuguese = "pt-BR"
)

func analysisPrompt(taskDataJSON, language string) string {
	switch language {
	case LangPortuguese:
		return fmt.Sprintf(`Você é um especialista em produtividade de classe mundial. Seu objetivo é ajudar os usuários a entenderem seus padrões de trabalho e melhorarem sua gestão de tempo.
Analise a lista de tarefas a seguir (com descrições e chaves de issues do Jira opcionais) e o tempo gasto em cada uma. Os dados são fornecidos em formato JSON.

Dados das Tarefas:
%s

Com base nestes dados, por favor, realize as seguintes ações:
1. Categorize as Tarefas: com base nos nomes, descrições e chaves do Jira, agrupe-as em categorias significativas. Evite nomes genéricos como "Diversos" ou "Geral". Uma tarefa com chave do Jira provavelmente é trabalho profissional.
2. Calcule os Totais por Categoria: para cada categoria, calcule o tempo total gasto em segundos.
3. Gere Insights: forneça 2-3 insights concisos e práticos, com cada insight sendo uma frase completa.
4. Formate a Saída: retorne a resposta inteira como um único objeto JSON válido com os campos "categories" (lista de {"categoryName", "tasks", "totalTime"}) e "insights" (lista de strings).`, taskDataJSON)
	default:
		return fmt.Sprintf(`You are a world-class productivity expert. Your goal is to help users understand their work patterns and improve their time management.
Analyze the following list of tasks (with optional descriptions and Jira issue keys) and the time spent on each. The data is provided in JSON format.

Tasks Data:
%s

Based on this data, please perform the following actions:
1. Categorize the Tasks: based on the task names, descriptions, and Jira keys, group them into meaningful categories. Avoid generic names like "Miscellaneous" or "General". A task with a Jira key is likely professional work.
2. Calculate Category Totals: for each category, calculate the total time spent in seconds.
3. Generate Insights: provide 2-3 concise, actionable insights, with each insight being a complete sentence.
4. Format Output: return the entire response as a single, valid JSON object with the fields "categories" (list of {"categoryName", "tasks", "totalTime"}) and "insights" (list of strings).`, taskDataJSON)
	}
}

func realtimePrompt(taskName string, elapsedSeconds int64, language string) string {
	duration := formatClock(elapsedSeconds)
	switch language {
	case LangPortuguese:
		return fmt.Sprintf(`Você é um coach de produtividade amigável. O usuário está trabalhando na tarefa "%s" há %s. Forneça uma mensagem motivacional muito curta, de uma única sentença, ou um lembrete gentil (como sugerir uma pequena pausa). Mantenha a mensagem com menos de 15 palavras. Seja encorajador.`, taskName, duration)
	default:
		return fmt.Sprintf(`You are a friendly productivity coach. The user has been working on the task "%s" for %s. Provide a very short, single-sentence motivational message or a gentle reminder (like suggesting a short break). Keep it under 15 words. Be encouraging.`, taskName, duration)
	}
}

func formatClock(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
