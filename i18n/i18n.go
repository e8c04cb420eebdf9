package i18n

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
)

var lang string

var translations = map[string]map[string]string{
	"Start/Stop": {
		"pt": "Iniciar/Parar",
		"es": "Iniciar/Parar",
		"ru": "Старт/Стоп",
	},
	"Next Run": {
		"pt": "Próxima Run",
		"es": "Siguiente Run",
		"ru": "Следующий забег",
	},
	"Reset Timer": {
		"pt": "Zerar Timer",
		"es": "Reiniciar Timer",
		"ru": "Сброс таймера",
	},
	"New Session": {
		"pt": "Nova Sessão",
		"es": "Nueva Sesión",
		"ru": "Новая сессия",
	},
	"Undo": {
		"pt": "Desfazer",
		"es": "Deshacer",
		"ru": "Отменить",
	},
	"Settings": {
		"pt": "Configurações",
		"es": "Configuración",
		"ru": "Настройки",
	},
	"Session": {
		"pt": "Sessão",
		"es": "Sesión",
		"ru": "Сессия",
	},
	"Run": {
		"pt": "Run",
		"es": "Run",
		"ru": "Забег",
	},
	"Saved runs": {
		"pt": "Runs salvas",
		"es": "Runs guardadas",
		"ru": "Сохранено забегов",
	},
	"Session full. Start a new session to continue.": {
		"pt": "Sessão cheia. Inicie uma nova sessão para continuar.",
		"es": "Sesión llena. Inicia una nueva sesión para continuar.",
		"ru": "Сессия заполнена. Начните новую сессию.",
	},
	"Nothing to undo.": {
		"pt": "Nada para desfazer.",
		"es": "Nada que deshacer.",
		"ru": "Нечего отменять.",
	},
	"Note": {
		"pt": "Nota",
		"es": "Nota",
		"ru": "Заметка",
	},
	"Save": {
		"pt": "Salvar",
		"es": "Guardar",
		"ru": "Сохранить",
	},
	"Cancel": {
		"pt": "Cancelar",
		"es": "Cancelar",
		"ru": "Отмена",
	},
	"Close": {
		"pt": "Fechar",
		"es": "Cerrar",
		"ru": "Закрыть",
	},
	"Controller enabled": {
		"pt": "Controle habilitado",
		"es": "Mando habilitado",
		"ru": "Контроллер включён",
	},
	"About D2Runner": {
		"pt": "Sobre o D2Runner",
		"es": "Acerca de D2Runner",
		"ru": "О D2Runner",
	},
}

func init() {
	// Check for override environment variable
	if forcedLang := strings.TrimSpace(os.Getenv("D2RUNNER_LANG")); forcedLang != "" {
		lang = forcedLang
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		log.Println("Could not get user locale, defaulting to english")
		lang = "en"
		return
	}

	detected := userLocales[0]
	switch {
	case strings.HasPrefix(detected, "pt"):
		lang = "pt"
	case strings.HasPrefix(detected, "es"):
		lang = "es"
	case strings.HasPrefix(detected, "ru"):
		lang = "ru"
	default:
		lang = "en"
	}
}

// GetLang returns the active language code.
func GetLang() string {
	return lang
}

// T translates a UI string, falling back to the English key.
func T(key string) string {
	if byLang, ok := translations[key]; ok {
		if s, ok := byLang[lang]; ok {
			return s
		}
	}
	return key
}
