package mcpserver

// DatasetFormat describes the dataset shapes the directory accepts and how
// their tags map onto filter dimensions.
const DatasetFormat = `# Support Directory Dataset Format

The directory loads a single JSON document in one of two shapes.

## Flat array

An array of objects. Each dimension is a list of tag strings (a single
string or null is also accepted):

` + "```" + `json
[
  {
    "Title": "Service name",
    "Content": "<p>Optional HTML description</p>",
    "Who has died?": ["Parent"],
    "Circumstances of death": ["Suicide"],
    "Age of person needing support": ["Adult"],
    "Type of support": ["Helpline"],
    "Location": ["Leeds"],
    "Featured": false
  }
]
` + "```" + `

## CMS export

An object with an ` + "`items`" + ` array. Dimension tags are carried in
` + "`categories`" + ` with a prefix:

| Prefix      | Dimension      |
|-------------|----------------|
| Who:        | who_died       |
| Cir:        | circumstances  |
| Age:        | age            |
| Type:       | support_type   |
| Location:   | location       |

` + "```" + `json
{"items": [{"title": "Service name", "body": "<p>...</p>",
  "categories": ["Who: Parent", "Type: Helpline"], "starred": true}]}
` + "```" + `

## Filtering

Values within one dimension are OR-ed, dimensions are AND-ed. Matching is
case-insensitive. The value "--" leaves a dimension unconstrained.
A record without tags for a constrained dimension never matches it.
`
