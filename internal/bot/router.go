// Package bot — router.go маршрутизирует сообщения по упорядоченному
// списку пар (предикаты, обработчик). Срабатывает первый маршрут,
// у которого совпали ВСЕ предикаты; на сообщение срабатывает ровно
// один маршрут. Порядок регистрации значим: фолбэки «нет прав у бота» /
// «нет прав у пользователя» стоят после полных модераторских маршрутов.
package bot

import (
	"context"

	log "github.com/sirupsen/logrus"

	"karmabot/internal/bot/filters"
)

// HandlerFunc — обработчик сообщения, прошедшего предикаты маршрута.
type HandlerFunc func(ctx context.Context, env *filters.Env)

type route struct {
	name  string
	preds []filters.Predicate
	fn    HandlerFunc
}

// Router — упорядоченный список маршрутов.
type Router struct {
	routes []route
}

// NewRouter создаёт пустой роутер.
func NewRouter() *Router {
	return &Router{}
}

// Handle регистрирует маршрут. Порядок вызовов определяет приоритет.
func (r *Router) Handle(name string, fn HandlerFunc, preds ...filters.Predicate) {
	r.routes = append(r.routes, route{name: name, preds: preds, fn: fn})
}

// Dispatch прогоняет сообщение по маршрутам и запускает первый совпавший.
// Возвращает true, если какой-то маршрут сработал.
func (r *Router) Dispatch(ctx context.Context, env *filters.Env) bool {
	for _, rt := range r.routes {
		if !matchAll(ctx, env, rt.preds) {
			continue
		}
		log.WithFields(log.Fields{
			"route":   rt.name,
			"command": env.Command,
			"user_id": env.Actor.TGID,
		}).Debug("Маршрут выбран")
		rt.fn(ctx, env)
		return true
	}
	return false
}

func matchAll(ctx context.Context, env *filters.Env, preds []filters.Predicate) bool {
	for _, p := range preds {
		if !p(ctx, env) {
			return false
		}
	}
	return true
}
