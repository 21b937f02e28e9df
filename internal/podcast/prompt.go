package podcast

// scriptPrompt is the fixed script-writing contract. The segment count and
// speaker alternation live here, in the prompt, not in code: this layer does
// not validate them.
const scriptPrompt = `ROLE
you write podcast scripts.

OUTPUT
only one json object:
{
 "title":"string",
 "summary":"string",
 "segments":[{"spk":"A|B","voice":"optional voice id","md":"markdown"},...]
}

RULES
- 8-16 segments
- alternate speakers A and B
- natural spoken tone
- short paragraphs and lists
- no code fences`

// fallbackUserTurnFormat embeds topic and material for the direct model call.
const fallbackUserTurnFormat = "topic: %s\n\nmaterial:\n%s\n\nreturn only json"
