package bot

// Reply keyboard labels.
const (
	MenuInfo        = "📚 Қасиетті сандар"
	MenuCompare     = "🌍 Мәдениеттерді салыстыру"
	MenuQuiz        = "🧠 Викторина"
	MenuStats       = "📊 Менің статистикам"
	MenuLeaderboard = "🏆 Лидерборд"
	MenuFeedback    = "✍️ Кері байланыс"
	MenuHelp        = "❓ Көмек"
	MenuAbout       = "ℹ️ Бот туралы"
	MenuBack        = "⬅️ Мәзірге қайту"
)

// Inline button labels.
const (
	btnMenu         = "⬅️ Мәзір"
	btnNumberList   = "⬅️ Сандар тізімі"
	btnRandomNumber = "🎲 Кездейсоқ сан көру"
	btnToggleInfo   = "Ақпарат: Қысқа / Толық"
	btnNextNumber   = "Келесі сан"
	btnCompareQuiz  = "🧠 Салыстырмалы викторина"
	btnCompareShort = "🌍 Салыстыру (қысқа)"
	btnCompareFull  = "📖 Толық барлық мәдениет"
	btnSubmitAnswer = "Жауапты бекіту"
	btnSelected     = "✅"
	btnUnselected   = "☑️"
)

const (
	textWelcome = "Сәлеметсіз бе! 👋\n\n" +
		"Бұл бот қазақ мәдениетіндегі <b>қасиетті сандар</b> туралы айтады: " +
		"3, 5, 7, 9, 40 және басқалары. Сандардың мағынасын оқып, " +
		"басқа мәдениеттермен салыстырып, викторинадан өтіп көріңіз.\n\n" +
		"Төмендегі мәзірден бөлім таңдаңыз."
	textHelp = "<b>Қалай қолдануға болады?</b>\n\n" +
		"• <b>Қасиетті сандар</b> — әр санның қысқа және толық сипаттамасы, шағын сұрақ.\n" +
		"• <b>Мәдениеттерді салыстыру</b> — бір санның түрлі мәдениеттердегі мағынасы.\n" +
		"• <b>Викторина</b> — деңгей таңдап, сұрақтарға жауап беріңіз.\n" +
		"• <b>Статистика</b> және <b>Лидерборд</b> — нәтижелеріңіз бен орныңыз.\n" +
		"• <b>Кері байланыс</b> — ұсыныс не пікір жазыңыз.\n\n" +
		"Командалар: /start, /menu, /stats, /leaderboard, /cancel, /help.\n" +
		"Кез келген чатта <code>@бот 7</code> деп жазып, сан туралы бөлісуге болады."
	textAbout = "<b>KieliSan</b> — қасиетті сандар туралы білім беретін бот.\n\n" +
		"Мазмұн қазақ этнографиясы мен салыстырмалы мәдениеттану дереккөздеріне негізделген."

	textBackToMenu      = "Мәзірге оралдық."
	textChooseNumber    = "Қай сан туралы білгіңіз келеді?"
	textChooseCompare   = "Санды таңдаңыз:"
	textChooseLevel     = "Деңгейді таңдаңыз:"
	textNoContent       = "Өкінішке қарай, контент табылмады."
	textNoNumber        = "Бұл сан бойынша мәлімет табылмады."
	textNoQuestions     = "Бұл деңгейде сұрақтар табылмады. Басқа деңгейді таңдаңыз."
	textUseButtons      = "Жауапты төмендегі батырмалар арқылы таңдаңыз."
	textStaleAnswer     = "Бұл сұрақтың жауабы қабылданды."
	textStaleQuestion   = "Бұл сұрақ өзекті емес."
	textEmptySelection  = "Кемінде бір нұсқа таңдаңыз."
	textNoActiveQuiz    = "Викторина аяқталған. Жаңасын мәзірден бастаңыз."
	textMiniAnswered    = "Бұл сұраққа жауап берілді."
	textMultiHint       = "Бірнеше дұрыс жауап болуы мүмкін."
	textFullBelow       = "(Толық нұсқа төменде.)"
	textOtherCultures   = "Басқа мәдениеттер (қысқаша)"
	textFeedbackPrompt  = "Кері байланыс жазыңыз. Ұсыныс немесе пікіріңізді күтемін!"
	textFeedbackThanks  = "Рақмет! Пікіріңіз қабылданды ✅"
	textFeedbackEmpty   = "Бос хабарлама жіберілмейді. Пікіріңізді мәтінмен жазыңыз."
	textFeedbackFailed  = "Пікірді сақтау мүмкін болмады. Кейінірек қайталап көріңіз."
	textFeedbackText    = "Пікіріңізді мәтінмен жіберіңіз."
	textNoStats         = "Әзірге статистика жоқ. Алдымен викторинадан өтіп көріңіз!"
	textEmptyBoard      = "Әзірге лидерборд бос. Алдымен викторинадан өтіп көріңіз!"
	textStorageBusy     = "Қазір деректерге қол жеткізу мүмкін емес. Кейінірек қайталап көріңіз."
	textCancelled       = "Викторина тоқтатылды."
	textNothingToCancel = "Белсенді викторина жоқ."
	textUnknown         = "Түсінбедім 🤔 Мәзірдегі батырмаларды қолданыңыз немесе /help деп жазыңыз."
	textUnknownDocument = "Файлдар қабылданбайды. Мәзірдегі батырмаларды қолданыңыз."
	textUnsupported     = "Бұл әрекет енді қолжетімсіз."
	textRateLimited     = "Тым жиі! Сәл күте тұрыңыз."
	textReloaded        = "Контент қайта жүктелді: %d сұрақ, %d салыстыру сұрағы, %d сан."
	textReloadFailed    = "Контентті жүктеу сәтсіз: %s"
	textAdminOnly       = "Бұл команда тек әкімшіге арналған."
	textInlineNoResults = "Сан табылмады"
)
