package rules

import (
	"regexp"
	"strings"

	"plum/internal/lint"
	"plum/internal/token"
)

// allowedTypes are library type names exempt from the snake_case rule.
var allowedTypes = toSet([]string{
	"sfBlack", "sfBlendAdd", "sfBlendAlpha", "sfBlendMultiply", "sfBlendNone",
	"sfBlue", "sfCircleShape", "sfClock", "sfColor", "sfContext",
	"sfConvexShape", "sfCursor", "sfCyan", "sfFloatRect", "sfFont", "sfGreen",
	"sfImage", "sfIntRect", "sfJoystick", "sfKeyboard", "sfListener",
	"sfMagenta", "sfMicroseconds", "sfMilliseconds", "sfMouse",
	"sfMouseButtonEvent", "sfMusic", "sfMutex", "sfRectangleShape", "sfRed",
	"sfRenderStates", "sfRenderTexture", "sfRenderWindow", "sfSeconds",
	"sfSensor", "sfShader", "sfShape", "sfSleep", "sfSound", "sfSoundBuffer",
	"sfSoundBufferRecorder", "sfSoundRecorder", "sfSoundStream", "sfSprite",
	"sfText", "sfTexture", "sfThread", "sfTime", "sfTouch", "sfTransform",
	"sfTransformable", "sfTransparent", "sfVertexArray", "sfVideoMode",
	"sfView", "sfWhite", "sfWindow", "sfYellow", "sfBool", "sfFtp",
	"sfFtpDirectoryResponse", "sfFtpListingResponse", "sfFtpResponse",
	"sfGlslIvec2", "sfGlslVec2", "sfGlslVec3", "sfHttp", "sfHttpRequest",
	"sfHttpResponse", "sfInputStream", "sfInputStreamGetSizeFunc",
	"sfInputStreamReadFunc", "sfInputStreamSeekFunc", "sfInputStreamTellFunc",
	"sfInt16", "sfInt32", "sfInt64", "sfInt8", "sfPacket",
	"sfShapeGetPointCallback", "sfSocketSelector",
	"sfSoundRecorderProcessCallback", "sfSoundRecorderStartCallback",
	"sfSoundRecorderStopCallback", "sfSoundStreamChunk",
	"sfSoundStreamGetDataCallback", "sfSoundStreamSeekCallback",
	"sfTcpListener", "sfTcpSocket", "sfUdpSocket", "sfUint16", "sfUint32",
	"sfUint64", "sfUint8", "sfVector2f", "sfVector2u", "sfVector2i",
	"sfVector3f", "sfVector3u", "sfVector3i", "sfWindowHandle", "userData",
	"FILE", "DIR",
	"Elf_Byte",
	"Elf32_Sym", "Elf32_Off", "Elf32_Addr", "Elf32_Section", "Elf32_Versym",
	"Elf32_Half", "Elf32_Sword", "Elf32_Word", "Elf32_Sxword", "Elf32_Xword",
	"Elf32_Ehdr", "Elf32_Phdr", "Elf32_Shdr", "Elf32_Rel", "Elf32_Rela",
	"Elf32_Dyn", "Elf32_Nhdr",
	"Elf64_Sym", "Elf64_Off", "Elf64_Addr", "Elf64_Section", "Elf64_Versym",
	"Elf64_Half", "Elf64_Sword", "Elf64_Word", "Elf64_Sxword", "Elf64_Xword",
	"Elf64_Ehdr", "Elf64_Phdr", "Elf64_Shdr", "Elf64_Rel", "Elf64_Rela",
	"Elf64_Dyn", "Elf64_Nhdr",
	"_Bool", "WINDOW",
})

var (
	prototypeRegex = regexp.MustCompile(`(?m)^[\t ]*` +
		`(?P<modifiers>(?:(?:inline|static|unsigned|signed|short|long|volatile|struct)[\t ]+)*)` +
		`(?P<type>\w+)\**[\t ]+\**[\t ]*\**[\t ]*` +
		`(?P<name>\w+)(?P<spaces>[\t ]*)` +
		`\((?P<parameters>[\t ]*(?:(void|(\w+\**[\t ]+\**[\t ]*\**\w+[\t ]*(,[\t \n]*)?))+|)[\t ]*)\)` +
		`[\t ]*` +
		`(?P<endline>;\n|\n?\{*\n)`)

	typeGroup = prototypeRegex.SubexpIndex("type")

	typeNameRegex  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	macroNameRegex = regexp.MustCompile(`^[A-Z_$][$A-Z_0-9]+`)
)

// statement words that the prototype pattern would read as a type
var notTypes = []string{"else", "typedef", "return"}

// naming checks function return type names and macro names.
type naming struct{}

func (naming) ID() string { return "C-V1" }

func (naming) Check(f *lint.File) []lint.Finding {
	return append(checkReturnTypes(f), checkMacroNames(f)...)
}

func checkReturnTypes(f *lint.File) []lint.Finding {
	var b strings.Builder
	for _, line := range f.Blanked(token.BlankComments) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	text := b.String()

	var out []lint.Finding
	for off := 0; off < len(text); {
		m := prototypeRegex.FindStringSubmatchIndex(text[off:])
		if m == nil {
			break
		}
		start, end := off+m[0], off+m[1]
		typ := text[off+m[2*typeGroup] : off+m[2*typeGroup+1]]

		if startsWithAny(typ, notTypes) {
			// retry from the next line
			nl := strings.IndexByte(text[start:], '\n')
			if nl < 0 {
				break
			}
			off = start + nl + 1
			continue
		}
		if !typeNameRegex.MatchString(typ) && !allowedTypes[typ] {
			out = append(out, lint.Finding{
				Line:    strings.Count(text[:start], "\n") + 1,
				Message: "return type " + typ + " is not in snake_case",
			})
		}
		off = end
	}
	return out
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func checkMacroNames(f *lint.File) []lint.Finding {
	lines := f.Lines()
	var out []lint.Finding
	for _, t := range f.Tokens(token.All, token.PPDefine) {
		line := lines[t.Line-1]
		idx := strings.Index(line, "define")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(line[idx+len("define"):])
		if !macroNameRegex.MatchString(name) {
			out = append(out, lint.Finding{Line: t.Line, Message: "macro name is not in UPPER_SNAKE_CASE"})
		}
	}
	return out
}
