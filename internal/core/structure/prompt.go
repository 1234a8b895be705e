package structure

import "fmt"

// extractionPromptTemplate 結構化 prompt 模板。
// 模型不可靠：schema 逐欄位說明、數值估算規則與 servings 政策都寫死在這裡，
// 最終防線仍在 normalize.go。
const extractionPromptTemplate = `Extract the recipe details from the following content.

IMPORTANT: If the content contains multiple images, they are presented in sequential order.
The first image might contain ingredients, and subsequent images might contain instructions.
Make sure to process them in the order provided and combine the information correctly.

Return ONLY a JSON object with the following structure:
{
  "title": "Recipe title",
  "description": "Brief description of the recipe",
  "prepTime": 15, // Preparation time in minutes as a NUMBER. If not stated, estimate a realistic value based on the recipe complexity. Never return null.
  "cookTime": 30, // Cooking time in minutes as a NUMBER. If not stated, estimate a realistic value. Never return null.
  "servings": 2, // MUST be exactly 2 unless the content explicitly states a serving count. This is not negotiable.
  "difficulty": "Easy", // One of: Easy, Medium, Hard
  "ingredients": [
    {
      "name": "ingredient name",
      "quantity": "amount", // IMPORTANT: Use numeric values (e.g., 1, 0.5, 1.5) without units
      "unit": "measurement unit" // Put units here (e.g., "cup", "tbsp", "g")
    }
  ],
  "instructions": [
    {
      "stepNumber": 1,
      "description": "step description",
      "timeEstimate": 5 // Estimated minutes for this step as a NUMBER
    }
  ],
  "tags": ["cuisine type", "vegetarian/non-vegetarian", "meal type", "difficulty", "cooking method"],
  "nutritionNotes": "Brief nutrition notes if available, otherwise an empty string"
}

Here's the content to parse:
%s

Remember to return ONLY the JSON object with no additional text or explanations.`

// buildExtractionPrompt 把擷取到的原始文字嵌入 prompt 模板
func buildExtractionPrompt(content string) string {
	return fmt.Sprintf(extractionPromptTemplate, content)
}
