package catalog

import (
	"fmt"

	"parentuni/internal/models"
)

var videoIDs = []string{
	"hB1UNt93FN8", "vehTS91mObM", "2H85Q_UjF5o",
	"hB1UNt93FN8", "vehTS91mObM", "2H85Q_UjF5o",
	"hB1UNt93FN8", "vehTS91mObM",
}

type moduleSpec struct {
	title        string
	description  string
	color        string
	videoOffset  int
	lessonTitles [8]string
	lessonTopics [8]string
	topicPrefix  string
}

var defaultModules = []moduleSpec{
	{
		title:       "Módulo 1: Tranquilizando os Pais",
		description: "Acalmando preocupações comuns dos pais e fortalecendo a base familiar.",
		color:       "#4A90E2",
		videoOffset: 0,
		lessonTitles: [8]string{
			"Entendendo as Preocupações",
			"Comunicação Familiar",
			"Gestão de Conflitos",
			"Estabelecendo Limites",
			"O Poder do Exemplo",
			"A Importância do Tempo Juntos",
			"Lidando com a Tecnologia",
			"Respeito Mútuo",
		},
		lessonTopics: [8]string{
			"entender preocupações parentais",
			"melhorar comunicação familiar",
			"gerir conflitos construtivamente",
			"estabelecer limites saudáveis",
			"o impacto do exemplo parental",
			"valor do tempo em família",
			"uso consciente da tecnologia",
			"respeito mútuo na família",
		},
		topicPrefix: "Aula essencial sobre",
	},
	{
		title:       "Módulo 2: Conectando com o Adolescente",
		description: "Técnicas avançadas de escuta, empatia e validação de sentimentos complexos.",
		color:       "#FF8F00",
		videoOffset: 2,
		lessonTitles: [8]string{
			"A Arte de Ouvir",
			"Validando Sentimentos",
			"Conversas Difíceis",
			"Elogio Efetivo",
			"O Mundo Deles",
			"Espaço e Confiança",
			"Entendendo a Rebeldia",
			"O Papel do Humor",
		},
		lessonTopics: [8]string{
			"desenvolver escuta ativa",
			"validar emoções adolescentes",
			"lidar com conversas difíceis",
			"elogiar de forma efetiva",
			"entender o universo adolescente",
			"equilibrar espaço e confiança",
			"compreender comportamentos rebeldes",
			"usar humor nas relações",
		},
		topicPrefix: "Aula focada em",
	},
	{
		title:       "Módulo 3: Ferramentas de Impacto",
		description: "Estratégias práticas e ferramentas validadas para mudança de comportamento imediata.",
		color:       "#9b59b6",
		videoOffset: 4,
		lessonTitles: [8]string{
			"O Diário da Gratidão",
			"Contratos Familiares",
			"A Roda das Emoções",
			"Reuniões de Família",
			"Reforço Positivo",
			"Consequências Naturais",
			"O Poder da Escolha",
			"Rotinas Saudáveis",
		},
		lessonTopics: [8]string{
			"cultivar gratidão familiar",
			"criar contratos familiares",
			"identificar e gerenciar emoções",
			"realizar reuniões familiares",
			"aplicar reforço positivo",
			"estabelecer consequências naturais",
			"oferecer escolhas adequadas",
			"criar rotinas saudáveis",
		},
		topicPrefix: "Aula prática sobre",
	},
	{
		title:       "Módulo 4: Crescendo Juntos",
		description: "Visão de longo prazo, definindo valores e construindo um legado familiar duradouro.",
		color:       "#00C853",
		videoOffset: 6,
		lessonTitles: [8]string{
			"Definindo Valores",
			"Sonhos e Metas",
			"Legado Familiar",
			"A Jornada Continua",
			"O Que Fazer Agora",
			"Celebrando Conquistas",
			"Mais Recursos",
			"Mensagem Final",
		},
		lessonTopics: [8]string{
			"definir valores familiares",
			"estabelecer sonhos e metas",
			"construir legado familiar",
			"manter a jornada familiar",
			"próximos passos práticos",
			"celebrar conquistas familiares",
			"recursos adicionais",
			"mensagem final motivacional",
		},
		topicPrefix: "Aula inspiradora sobre",
	},
}

var basicQuizSteps = []models.QuizStep{
	{
		Question:           "Qual o primeiro passo para tranquilizar as preocupações parentais?",
		Options:            []string{"Buscar a causa na criança.", "Entender suas próprias emoções."},
		CorrectOptionIndex: 1,
		Explanation:        "A tranquilidade começa em você. Gerenciar suas emoções é crucial para criar um ambiente familiar harmonioso.",
	},
	{
		Question:           "Qual o pilar mais importante para estabelecer limites eficazes?",
		Options:            []string{"Ameaças e gritos.", "Consistência e amor.", "Flexibilidade total."},
		CorrectOptionIndex: 1,
		Explanation:        "Limites funcionam quando são aplicados de forma consistente, com amor e respeito, criando segurança emocional.",
	},
	{
		Question:           "Quais ações promovem a paz no lar?",
		Options:            []string{"Gritar quando o filho desobedece.", "Ter reuniões familiares semanais.", "Ignorar conflitos menores."},
		CorrectOptionIndex: 1,
		Explanation:        "Reuniões familiares semanais aumentam a comunicação e o senso de pertencimento, promovendo paz e colaboração.",
	},
}

var advancedQuizSteps = []models.QuizStep{
	{
		Question:           "Como validar os sentimentos do seu filho de forma efetiva?",
		Options:            []string{"Dizer 'não se preocupe'", "Repetir o que ele disse com suas palavras", "Dar conselhos imediatos"},
		CorrectOptionIndex: 1,
		Explanation:        "Repetir com suas palavras mostra que você está ouvindo e compreendendo, validando os sentimentos.",
	},
	{
		Question:           "Qual a melhor abordagem para conversas difíceis?",
		Options:            []string{"Evitar o assunto", "Escolher um momento calmo e usar 'eu'", "Confrontar imediatamente"},
		CorrectOptionIndex: 1,
		Explanation:        "Momento calmo e linguagem com 'eu' criam segurança para diálogos construtivos.",
	},
	{
		Question:           "Como estabelecer confiança com adolescentes?",
		Options:            []string{"Controlar todas as atividades", "Respeitar a privacidade e manter diálogo", "Exigir obediência total"},
		CorrectOptionIndex: 1,
		Explanation:        "Equilíbrio entre respeito à privacidade e diálogo aberto constrói confiança duradoura.",
	},
}

// Default builds the built-in course: four modules of eight lessons each,
// one quiz per lesson. The first nine quizzes reuse the basic question
// set and the rest reuse the advanced set, matching the published course
func Default() (*Catalog, error) {
	modules := make([]models.Module, 0, len(defaultModules))
	quizzes := make([]models.Quiz, 0, len(defaultModules)*8)

	for modID, spec := range defaultModules {
		mod := models.Module{
			ID:          modID,
			Title:       spec.title,
			Description: spec.description,
			Duration:    "8 aulas × 8min",
			Color:       spec.color,
			Lessons:     make([]models.Lesson, 0, 8),
		}

		for i := 0; i < 8; i++ {
			global := modID*8 + i
			videoID := videoIDs[(i+spec.videoOffset)%len(videoIDs)]
			mod.Lessons = append(mod.Lessons, models.Lesson{
				ModuleID:      modID,
				LessonID:      i,
				Title:         fmt.Sprintf("Aula %d: %s", global+1, spec.lessonTitles[i]),
				Description:   fmt.Sprintf("%s %s.", spec.topicPrefix, spec.lessonTopics[i]),
				VideoRef:      fmt.Sprintf("https://www.youtube.com/embed/%s?rel=0", videoID),
				DurationLabel: "8 min",
				QuizID:        global,
			})

			quiz := models.Quiz{
				ID:    global,
				Title: fmt.Sprintf("Revisão da Aula %d", global+1),
				Steps: basicQuizSteps,
			}
			if global == 0 {
				quiz.Title = "Questionário Essencial"
			}
			if global > 8 {
				quiz.Steps = advancedQuizSteps
			}
			quizzes = append(quizzes, quiz)
		}

		modules = append(modules, mod)
	}

	return New("Conexão Pais e Filhos", "Dr. Wimer Bottura Jr.", modules, quizzes)
}

// MustDefault is Default for callers where a broken built-in catalog is
// a programming error, such as server startup and tests
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}
