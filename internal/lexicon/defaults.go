package lexicon

// Default returns the built-in vocabulary. The team this pipeline was built
// for chats in a Spanish/English mix, so most sets carry terms in both
// languages. Deployments with other vocabularies override sets via config.
func Default() *Lexicon {
	return New(map[Category][]string{
		Frustration: {
			"frustrado", "molesto", "no funciona", "otra vez", "no puedo",
			"bloqueado", "stuck", "no avanza", "cansado", "harto",
		},
		Enthusiasm: {
			"genial", "excelente", "perfecto", "listo", "completado",
			"funciona", "logré", "conseguí", "awesome", "great", "🎉", "✅",
		},
		Concern: {
			"preocupa", "problema", "riesgo", "urgente", "crítico",
			"atrasado", "retraso", "concerned", "worried", "issue",
		},
		Blocker: {
			"bloqueado", "blocked", "stuck", "esperando", "waiting",
			"no puedo avanzar", "necesito que", "dependiendo de",
		},
		Unblock: {
			"puedo ayudar", "lo reviso", "me encargo", "ya lo hago",
			"te desbloqueo", "unblocking", "resuelto",
		},
		Waiting: {"esperando", "waiting"},
		Decision: {
			"decidimos", "vamos a", "haremos", "acordamos", "decided to",
			"we will", "we are going to", "agreed to",
		},
		Question: {"deberíamos", "qué hacemos con", "should we"},
		UrgencyCritical: {
			"cliente afectado", "producción caída", "perdiendo dinero",
			"deadline hoy", "client down", "production down", "production is broken",
		},
		UrgencyHigh: {
			"deadline esta semana", "cliente preguntando", "bloqueando a otros",
			"urgente", "asap", "prioritario", "critical",
		},
		UrgencyMedium: {"deadline próximo", "importante", "deberíamos", "hay que"},
		UrgencyLow:    {"cuando puedas", "no urgente", "eventualmente", "nice to have", "no rush"},
		Deadline:      {"deadline", "fecha límite"},
		ClientImpact:  {"cliente", "client"},
		Update: {
			"update", "actualización", "progreso", "avance", "completado",
			"terminado", "listo", "deploy", "release", "merged", "aprobado",
			"bloqueado", "pasó a", "movido a", "%",
		},
		Technical: {
			"código", "code", "api", "database", "bug", "error", "función",
			"function", "deploy", "merge", "commit",
		},
		Coordination: {
			"reunión", "meeting", "deadline", "entrega", "sprint", "sync",
			"stand-up", "standup",
		},
		Meeting: {
			"sync", "sincronización", "standup", "stand-up", "daily",
			"reunión de equipo", "team meeting",
		},
		Attendance: {
			"estoy en", "me uno", "joining", "en la reunión", "en el sync",
			"en el daily", "en el standup",
		},
		MeetingAbsence: {
			"no puedo ir", "no podré", "me ausento", "cant join",
			"cannot attend", "miss the", "skip",
		},
		AbsenceNotice: {
			"fuera", "ausente", "no estaré", "enfermo", "vacaciones",
			"permiso", "offline",
		},
		Risk: {
			"crítico", "urgente", "problema grave", "cliente en riesgo",
			"vamos a perder", "critical", "urgent", "severe", "losing client",
		},
		Positive: {
			"completado", "listo", "terminado", "merged", "aprobado",
			"resuelto", "funciona", "done", "finished",
		},
		Negative: {
			"bloqueado", "stuck", "problema", "error", "bug", "crítico",
			"urgente", "esperando", "no puedo", "blocked", "issue",
		},
		Delayed:       {"delayed", "retrasado", "retraso", "atrasado"},
		BlockedStatus: {"bloqueado", "blocked", "stuck", "waiting", "esperando"},
		Sensitivity: {
			"deadline", "cliente", "urgente", "crítico", "client", "urgent",
			"critical",
		},
		Objective: {"objetivo", "meta", "goal", "target", "milestone"},
		Reason:    {"porque", "ya que", "debido a", "because", "due to"},
		NextSteps: {"siguiente", "next", "luego"},
		Deviation: {"retraso", "problema", "bloqueado"},
	})
}
