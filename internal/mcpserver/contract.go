package mcpserver

// RecipeFormatContract describes the canonical dataset schema that LLM
// consumers should follow when adding recipes.
const RecipeFormatContract = `# Rasoi Recipe Dataset Schema

Every record added to the dataset MUST follow this schema. Records are
append-only rows of a CSV file; they are never edited after creation.

## Fields

| field | type | constraint |
|---|---|---|
| name | text | REQUIRED, trimmed length >= 3 |
| language | text | one of the recognized set below; anything else is stored as "Other" |
| region | text | optional, e.g. "Andhra Pradesh" |
| ingredients | text | REQUIRED, trimmed length >= 10, one per line or comma-separated |
| instructions | text | REQUIRED, trimmed length >= 20, step-by-step |
| prep_time_minutes | integer | >= 0 |
| cook_time_minutes | integer | >= 0 |
| servings | integer | >= 1, defaults to 4 when omitted |
| difficulty | text | REQUIRED, exactly one of: Easy, Medium, Hard |
| image_filename | text | optional, must come from import_recipe_image |

Recognized languages: Telugu, Hindi, Tamil, Kannada, Malayalam, Marathi,
Bengali, Gujarati, Punjabi, Other.

The server derives total_time_minutes (prep + cook) and date_added itself;
do not supply them.

## Rules

1. Validation is strict: a too-short name, ingredients, or instructions
   field rejects the whole record and nothing is stored.
2. Ingredient lists should name quantities where known ("2 cups basmati
   rice"), one ingredient per line.
3. Instructions should be complete enough to cook from, in order.
4. **Images**: first call import_recipe_image with an http(s) URL or a
   base64 data URI (image/png or image/jpeg only). It returns a filename;
   pass that as image_filename to add_recipe. Filenames are
   content-addressed, so re-importing identical bytes is harmless.
5. Text may use any language or script; field names are fixed English.

## Example

` + "```" + `json
{
  "name": "Hyderabadi Biryani",
  "language": "Telugu",
  "region": "Telangana",
  "ingredients": "2 cups basmati rice\n500g chicken\nsaffron, fried onions, yogurt",
  "instructions": "Marinate the chicken in spiced yogurt, parboil the rice, layer both in a heavy pot and cook on dum for 25 minutes.",
  "prep_time_minutes": 40,
  "cook_time_minutes": 50,
  "servings": 6,
  "difficulty": "Hard"
}
` + "```" + `
`
