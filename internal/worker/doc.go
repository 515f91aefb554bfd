// Package worker выполняет отдельные команды задач.
//
// Worker — единственная граница классификации успеха и неудачи:
//
//  1. По дискриминатору команды создаётся свежий экземпляр стратегии
//     (через реестр).
//  2. Вокруг стратегии строится настроенная цепочка декораторов
//     (пустая, если для типа ничего не настроено).
//  3. Цепочка вызывается; любая ошибка или panic из неё ровно один раз
//     превращается в StepOutcome{FAILED}, чистый возврат — в
//     StepOutcome{SUCCESS}.
//
// Worker не заглядывает внутрь стратегий: возврат значения из хука
// OnError его не интересует, сигналом неудачи служит только ошибка,
// вышедшая из цепочки.
package worker
