package format

import (
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and message entities
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len calculates the UTF-16 length of a string. Telegram entity offsets
// and lengths are counted in UTF-16 code units, not bytes or runes.
func UTF16Len(s string) int {
	length := 0
	for _, r := range s {
		if r > 0xffff {
			length += 2 // surrogate pair
		} else {
			length++
		}
	}
	return length
}

var (
	boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codeRe = regexp.MustCompile("`([^`]+?)`")
)

// ParseMarkdown converts the Markdown subset the bot emits (**bold**,
// `code`) into plain text plus Telegram message entities. Sending entities
// instead of a parse mode avoids Telegram rejecting messages whose user
// content happens to contain markup characters.
func ParseMarkdown(text string) ParseResult {
	var entities []tgbotapi.MessageEntity
	result := text

	strip := func(re *regexp.Regexp, entityType string) {
		for {
			loc := re.FindStringSubmatchIndex(result)
			if loc == nil {
				break
			}
			inner := result[loc[2]:loc[3]]
			entities = append(entities, tgbotapi.MessageEntity{
				Type:   entityType,
				Offset: UTF16Len(result[:loc[0]]),
				Length: UTF16Len(inner),
			})
			result = result[:loc[0]] + inner + result[loc[1]:]
		}
	}

	strip(boldRe, "bold")
	strip(codeRe, "code")

	// Telegram requires entities sorted by offset.
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if entities[j].Offset < entities[i].Offset {
				entities[i], entities[j] = entities[j], entities[i]
			}
		}
	}

	return ParseResult{
		Text:     strings.TrimRight(result, " \n"),
		Entities: entities,
	}
}
