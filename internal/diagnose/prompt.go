package diagnose

import (
	"fmt"
	"strings"

	"github.com/agriguard/agriguard/internal/locale"
)

const diagnosisPrompt = `You are an expert agricultural scientist. Analyze the crop problem described and provide a detailed diagnosis %s.

Crop Problem Description: %s

Please provide:
1. **Detected Issue:** Name of the disease or problem
2. **Severity:** Assessment of how severe the problem is
3. **Recommendations:** Specific actionable steps to treat the problem
4. **Prevention Tips:** How to prevent this in the future
5. **Expected Recovery Time:** Estimated time for recovery with proper treatment

Format the response with clear sections and bullet points for recommendations.`

const imageOnlyDescription = "Image analysis only"

// BuildPrompt creates the diagnosis prompt for description, asking for the
// answer in lang. An empty description means the image carries the problem.
func BuildPrompt(description string, lang locale.Language) string {
	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = imageOnlyDescription
	}
	return fmt.Sprintf(diagnosisPrompt, locale.Instruction(lang), desc)
}
